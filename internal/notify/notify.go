package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"svnherald/internal/logging"
	"svnherald/internal/resolve"
	"svnherald/internal/settings"
)

// Kind identifies one delivery backend.
type Kind string

const (
	KindMail   Kind = "mail"
	KindNews   Kind = "news"
	KindRPC    Kind = "rpc"
	KindStdout Kind = "stdout"
)

// Select returns the kinds a resolved group's settings ask for, in a fixed
// order. A group with no recipients of any kind selects nothing.
func Select(general *settings.General, group *settings.Group) []Kind {
	var kinds []Kind
	if len(group.ToAddr) > 0 {
		kinds = append(kinds, KindMail)
	}
	if len(group.ToNewsgroup) > 0 {
		kinds = append(kinds, KindNews)
	}
	if general != nil && general.CIARPCServer != "" && group.CIAProjectName != "" {
		kinds = append(kinds, KindRPC)
	}
	return kinds
}

// Notifier delivers one resolved group through one backend.
type Notifier interface {
	Kind() Kind
	Run(ctx context.Context, ev *resolve.Event, group *resolve.ResolvedGroup) error
}

// Dispatcher routes resolved groups to the registered backends.
type Dispatcher struct {
	general   *settings.General
	notifiers map[Kind]Notifier
	logger    *slog.Logger

	// Debug sends every group to the stdout backend instead of its
	// selected kinds, when one is registered.
	Debug bool
}

// NewDispatcher builds a dispatcher over the given backends. Registering two
// backends of the same kind keeps the last one.
func NewDispatcher(general *settings.General, logger *slog.Logger, notifiers ...Notifier) *Dispatcher {
	d := &Dispatcher{
		general:   general,
		notifiers: make(map[Kind]Notifier, len(notifiers)),
		logger:    logging.NewComponentLogger(logger, "notify"),
	}
	for _, n := range notifiers {
		d.notifiers[n.Kind()] = n
	}
	return d
}

// Dispatch delivers every resolved group through its selected backends. A
// failing backend does not stop delivery for the remaining groups or kinds;
// all failures come back joined.
func (d *Dispatcher) Dispatch(ctx context.Context, ev *resolve.Event, groups []*resolve.ResolvedGroup) error {
	var errs []error
	for _, group := range groups {
		log := d.logger.With(
			logging.String(logging.FieldRunID, group.RunID),
			logging.String(logging.FieldGroup, group.Name),
		)
		for _, kind := range d.kindsFor(group) {
			n, ok := d.notifiers[kind]
			if !ok {
				log.Warn("no backend registered for kind", logging.Args(
					logging.String("kind", string(kind)),
				)...)
				continue
			}
			if err := n.Run(ctx, ev, group); err != nil {
				log.Error("delivery failed", logging.Args(
					logging.String("kind", string(kind)),
					logging.Error(err),
				)...)
				errs = append(errs, fmt.Errorf("%s delivery for group %s: %w", kind, group.Name, err))
				continue
			}
			log.Info("delivered", logging.Args(
				logging.String("kind", string(kind)),
			)...)
		}
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) kindsFor(group *resolve.ResolvedGroup) []Kind {
	if d.Debug {
		return []Kind{KindStdout}
	}
	return Select(d.general, group.Settings)
}
