// Package subst expands %(name)s placeholders in configuration values.
//
// Placeholders reference variables captured from pattern matches or supplied
// as built-ins by the resolver. Expansion is a single pass; expanded output is
// never re-scanned, so templates cannot recurse. A literal percent sign is
// written as %%.
package subst
