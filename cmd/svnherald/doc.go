// Package main hosts the svnherald CLI entrypoint and command graph.
//
// The Cobra-based command tree translates repository hook invocations into
// notification runs: commit, propchange, lock and unlock build a change
// event, resolve it against the notification config, and hand the resolved
// groups to the delivery layer. explain performs the same resolution as a
// dry run and renders the result, and config scaffolds and checks the tool's
// own TOML configuration.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
