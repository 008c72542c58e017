// Package notifyconf parses the notification configuration text into an
// ordered document of sections and classifies those sections.
//
// The format is INI-like: [section] headers, key = value pairs, #-prefixed
// comment lines, and continuation lines introduced by leading whitespace that
// are joined to the previous value with a single space. The last occurrence
// of a key wins, within a file and across included files. The [general]
// section may name additional files via include_config; they are merged in
// the order listed, at the point of the directive.
//
// The sections general, defaults and maps are reserved. Every other section
// is either a notification group or a map table referenced from [maps].
package notifyconf
