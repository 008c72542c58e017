// Package logging wraps log/slog with svnherald's output conventions.
//
// Hook invocations log human-readable console lines on stderr by default;
// long-lived embeddings can switch to JSON. Attr helpers and standardized
// field names keep resolution warnings greppable across components.
package logging
