// Package pattern compiles and evaluates the for_repos / for_paths regular
// expressions from the notification configuration.
//
// Matching is anchored at the start of the subject but does not have to
// consume it fully. An empty pattern matches every subject with an empty
// capture set, which is how "for_paths =" means "every path". Named capture
// groups become template variables, so their names must be valid identifiers.
package pattern
