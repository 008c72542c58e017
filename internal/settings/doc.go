// Package settings turns raw configuration strings into typed values.
//
// Every known option is listed in a declarative schema mapping its name to a
// value kind plus behavior flags (template expansion, map redirection). The
// coercion itself is a pure function over a tagged value variant, so the same
// raw input always yields the same typed value or the same error. Unknown
// option names are rejected during validation, before any event is processed.
package settings
