// Package resolve selects and materializes the notification groups that
// apply to one repository change event.
//
// A Resolver is built once from a classified configuration; building it
// compiles every group pattern and validates every option, so configuration
// mistakes surface before the first event. Resolution itself is a pure
// function of (configuration, event): the Resolver holds no mutable state
// and may be shared across goroutines.
//
// Groups are evaluated in declaration order. A group claims every affected
// path its patterns match, except that fallback groups only ever receive
// paths no ordinary group claimed, first fallback match wins. Settings are
// merged key-wise from [defaults], template-expanded with variables captured
// from the pattern matches, redirected through [maps] tables where declared,
// and coerced to their typed form.
package resolve
