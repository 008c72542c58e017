// Package notify fans resolved notification groups out to delivery backends.
//
// A backend implements the small Notifier interface for one output kind
// (mail, news, rpc, stdout). The Dispatcher selects the kinds each resolved
// group asks for from its settings and runs the matching backends, collecting
// per-backend failures without stopping the fan-out. The stdout backend is
// implemented here and doubles as the dry-run output; the wire transports are
// supplied by external collaborators.
package notify
