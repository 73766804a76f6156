package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL + "/", Timeout: 5 * time.Second})
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Config{})
	assert.Equal(t, domain.DefaultBackendURL, client.BaseURL())
	assert.Equal(t, domain.DefaultBackendTimeout, client.client.Timeout)
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://example.test///"})
	assert.Equal(t, "http://example.test", client.BaseURL())
}

func TestClient_Analyze_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, AnalyzePath, r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		parts := r.MultipartForm.File["files"]
		require.Len(t, parts, 2)
		assert.Equal(t, "notes.txt", parts[0].Filename)
		assert.Equal(t, "text/plain", parts[0].Header.Get("Content-Type"))
		assert.Equal(t, "scan.png", parts[1].Filename)

		f, err := parts[0].Open()
		require.NoError(t, err)
		content, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "mitosis phases", string(content))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"Focus on cell division.","total_files":2,` +
			`"files_analyzed":["notes.txt","scan.png"],"model_used":"gpt-test"}`))
	})

	result, err := client.Analyze(context.Background(), []domain.UploadFile{
		{Name: "notes.txt", MIMEType: "text/plain", Size: 14, Content: []byte("mitosis phases")},
		{Name: "scan.png", MIMEType: "image/png", Size: 3, Content: []byte{0x89, 0x50, 0x4e}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Focus on cell division.", result.Response)
	assert.Equal(t, 2, result.TotalFiles)
	assert.Equal(t, []string{"notes.txt", "scan.png"}, result.FilesAnalyzed)
	assert.Equal(t, "gpt-test", result.ModelUsed)
}

func TestClient_Analyze_MissingFieldsTolerated(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"total_files":1}`))
	})

	result, err := client.Analyze(context.Background(), []domain.UploadFile{{Name: "a.txt", Content: []byte("x")}})
	require.NoError(t, err)
	assert.Equal(t, domain.NoResponseText, result.DisplayText())
	assert.NotNil(t, result.FilesAnalyzed)
	assert.Empty(t, result.ModelUsed)
}

func TestClient_Failure_StringDetails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Too many files.","details":"Max allowed is 20."}`))
	})

	_, err := client.Analyze(context.Background(), nil)
	require.Error(t, err)

	var backendErr *domain.BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, http.StatusBadRequest, backendErr.StatusCode)
	assert.Equal(t, "Too many files.\n\nMax allowed is 20.", backendErr.Error())
}

func TestClient_Failure_StructuredDetails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"Upstream failed","details":{"code":429,"reason":"rate limited"}}`))
	})

	_, err := client.GenerateReferenceSheet(context.Background(), "analysis", domain.SheetRequirements{})

	var backendErr *domain.BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, "{\n  \"code\": 429,\n  \"reason\": \"rate limited\"\n}", backendErr.Details)
	assert.True(t, strings.HasPrefix(domain.UserMessage(err), "Upstream failed\n\n{"))
}

func TestClient_Failure_NoErrorField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"details":null}`))
	})

	_, err := client.Analyze(context.Background(), nil)
	assert.Equal(t, "Request failed.", domain.UserMessage(err))
}

func TestClient_Failure_NonJSONBody(t *testing.T) {
	long := strings.Repeat("x", 800)
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(long))
	})

	_, err := client.Analyze(context.Background(), nil)

	var backendErr *domain.BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, "Request failed with status 503.", backendErr.Message)
	assert.Len(t, backendErr.Details, maxErrorBody)
}

func TestClient_Failure_NonJSONBodyKeepsRunes(t *testing.T) {
	body := "x" + strings.Repeat("é", 400)
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(body))
	})

	_, err := client.Analyze(context.Background(), nil)

	var backendErr *domain.BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.True(t, utf8.ValidString(backendErr.Details))
	assert.Equal(t, "x"+strings.Repeat("é", 249), backendErr.Details)
}

func TestTruncateBody(t *testing.T) {
	assert.Equal(t, "short", truncateBody([]byte("short")))
	assert.Len(t, truncateBody([]byte(strings.Repeat("a", maxErrorBody+1))), maxErrorBody)
	assert.Equal(t, strings.Repeat("é", maxErrorBody/2), truncateBody([]byte(strings.Repeat("é", maxErrorBody))))
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(Config{BaseURL: url, Timeout: time.Second})
	_, err := client.Analyze(context.Background(), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.True(t, strings.HasPrefix(domain.UserMessage(err), "Network error: "))
	assert.NotContains(t, domain.UserMessage(err), "network error: ")
}

func TestClient_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.Analyze(ctx, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestClient_GenerateReferenceSheet_Request(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, SheetPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Kinematics heavy", body["analysis"])

		reqs, ok := body["requirements"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Physics", reqs["event_name"])
		assert.Equal(t, "B", reqs["division"])
		assert.Equal(t, "hard", reqs["difficulty"])
		assert.InDelta(t, 900, reqs["target_word_count"], 0)
		assert.Equal(t, "vectors", reqs["required_topics"])
		assert.Equal(t, "optics", reqs["banned_topics"])
		assert.Equal(t, "SI units", reqs["notes"])

		_, _ = w.Write([]byte(`{"reference_sheet":"A\n\nB","model_used":"local-lora","quality":{"score":8.5}}`))
	})

	sheet, err := client.GenerateReferenceSheet(context.Background(), "Kinematics heavy", domain.SheetRequirements{
		EventName:       "Physics",
		Division:        "B",
		Difficulty:      "hard",
		TargetWordCount: 900,
		RequiredTopics:  "vectors",
		BannedTopics:    "optics",
		Notes:           "SI units",
	})
	require.NoError(t, err)
	assert.Equal(t, "A\n\nB", sheet.Text)
	assert.Equal(t, "local-lora", sheet.ModelUsed)
	require.NotNil(t, sheet.Quality)
	assert.True(t, sheet.Quality.Numeric)
	assert.Equal(t, "Reference sheet generated using local-lora | quality score: 8.5", sheet.Meta())
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *domain.SheetQuality
	}{
		{"missing", ``, nil},
		{"null", `null`, nil},
		{"integer", `7`, &domain.SheetQuality{Score: 7, Numeric: true}},
		{"float", `6.25`, &domain.SheetQuality{Score: 6.25, Numeric: true}},
		{"string", `"good"`, &domain.SheetQuality{Label: "good"}},
		{"object", `{"x":1}`, &domain.SheetQuality{Label: `{"x":1}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseScore(json.RawMessage(tt.raw)))
		})
	}
}

func TestRenderDetails(t *testing.T) {
	assert.Empty(t, renderDetails(nil))
	assert.Empty(t, renderDetails(json.RawMessage(`null`)))
	assert.Equal(t, "plain text", renderDetails(json.RawMessage(`"plain text"`)))
	assert.Equal(t, "[\n  1,\n  2\n]", renderDetails(json.RawMessage(`[1,2]`)))
}

func TestClient_Ping(t *testing.T) {
	healthy := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})
	assert.NoError(t, healthy.Ping(context.Background()))

	broken := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	var backendErr *domain.BackendError
	require.True(t, errors.As(broken.Ping(context.Background()), &backendErr))
	assert.Equal(t, http.StatusInternalServerError, backendErr.StatusCode)
}
