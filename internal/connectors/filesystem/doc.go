// Package filesystem reads user-selected practice files and watches them for changes.
//
// Loader implements driven.FileLoader: it resolves paths, rejects directories,
// drops duplicates and detects each file's MIME type from its extension.
// Watcher implements driven.FileWatcher on top of fsnotify. It watches the
// parent directory of every selected file, so editors that save by renaming a
// temporary file over the original are still noticed, and forwards only events
// for the selected files, dotfiles included.
package filesystem
