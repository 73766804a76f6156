package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driven"
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyBackendURL     = domain.KeyBackendURL
	KeyBackendTimeout = domain.KeyBackendTimeout
	KeySheetEvent     = domain.KeySheetEvent
	KeySheetDivision  = domain.KeySheetDivision
	KeySheetDiff      = domain.KeySheetDifficulty
	KeySheetWords     = domain.KeySheetWords
	KeySheetRequired  = domain.KeySheetRequired
	KeySheetBanned    = domain.KeySheetBanned
	KeySheetNotes     = domain.KeySheetNotes
	KeyHistoryEnabled = domain.KeyHistoryEnabled
	KeyHistoryLimit   = domain.KeyHistoryLimit
)

// settingKeys lists the settable keys in display order.
var settingKeys = []string{
	KeyBackendURL,
	KeyBackendTimeout,
	KeySheetEvent,
	KeySheetDivision,
	KeySheetDiff,
	KeySheetWords,
	KeySheetRequired,
	KeySheetBanned,
	KeySheetNotes,
	KeyHistoryEnabled,
	KeyHistoryLimit,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Backend: domain.BackendSettings{
			BaseURL: strings.TrimRight(s.getString(KeyBackendURL, defaults.Backend.BaseURL), "/"),
			Timeout: s.getDuration(KeyBackendTimeout, defaults.Backend.Timeout),
		},
		Sheet: domain.SheetRequirements{
			EventName:       s.getString(KeySheetEvent, defaults.Sheet.EventName),
			Division:        s.getString(KeySheetDivision, defaults.Sheet.Division),
			Difficulty:      s.getString(KeySheetDiff, defaults.Sheet.Difficulty),
			TargetWordCount: s.getInt(KeySheetWords, defaults.Sheet.TargetWordCount),
			RequiredTopics:  s.getString(KeySheetRequired, defaults.Sheet.RequiredTopics),
			BannedTopics:    s.getString(KeySheetBanned, defaults.Sheet.BannedTopics),
			Notes:           s.getString(KeySheetNotes, defaults.Sheet.Notes),
		},
		History: domain.HistorySettings{
			Enabled: s.getBool(KeyHistoryEnabled, defaults.History.Enabled),
			Limit:   s.getInt(KeyHistoryLimit, defaults.History.Limit),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeyBackendURL, settings.Backend.BaseURL},
		{KeyBackendTimeout, settings.Backend.Timeout.String()},
		{KeySheetEvent, settings.Sheet.EventName},
		{KeySheetDivision, settings.Sheet.Division},
		{KeySheetDiff, settings.Sheet.Difficulty},
		{KeySheetWords, int64(settings.Sheet.TargetWordCount)},
		{KeySheetRequired, settings.Sheet.RequiredTopics},
		{KeySheetBanned, settings.Sheet.BannedTopics},
		{KeySheetNotes, settings.Sheet.Notes},
		{KeyHistoryEnabled, settings.History.Enabled},
		{KeyHistoryLimit, int64(settings.History.Limit)},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set updates a single setting, converting value to the key's type.
// Only that key is written, so values supplied by the environment are not persisted.
func (s *SettingsService) Set(key, value string) error {
	stored, err := s.convert(key, value)
	if err != nil {
		return err
	}
	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// convert validates value for key and returns it in its stored form.
func (s *SettingsService) convert(key, value string) (any, error) {
	switch key {
	case KeyBackendURL:
		url := strings.TrimRight(strings.TrimSpace(value), "/")
		if err := (domain.BackendSettings{BaseURL: url}).Validate(); err != nil {
			return nil, err
		}
		return url, nil
	case KeyBackendTimeout:
		d, err := parseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
		}
		return d.String(), nil
	case KeySheetEvent, KeySheetDivision, KeySheetDiff, KeySheetRequired, KeySheetBanned, KeySheetNotes:
		return value, nil
	case KeySheetWords, KeyHistoryLimit:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		return int64(n), nil
	case KeyHistoryEnabled:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

// Keys returns the settable keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	copy(keys, settingKeys)
	return keys
}

// Validate checks the current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Backend.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if val := s.configStore.GetInt(key); val != 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetBool(key)
	}
	return defaultVal
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := s.configStore.GetDuration(key); val > 0 {
		return val
	}
	return defaultVal
}

// parseDuration accepts Go durations ("90s") or whole seconds ("90").
func parseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if n, err := strconv.Atoi(value); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("must be positive")
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return d, nil
}
