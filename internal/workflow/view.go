// Package workflow implements the notice approval, poll and complaint
// workflows on top of the REST client. Each board is a view: it owns its
// state, serializes its own writes with in-progress flags and stops applying
// results once closed.
package workflow

import (
	"context"
	"errors"
	"log/slog"

	"github.com/societyhub/backend/internal/assets"
	"github.com/societyhub/backend/internal/identity"
)

// ErrViewClosed is returned when a result arrives after the view was closed.
// The result is dropped.
var ErrViewClosed = errors.New("view closed")

// Deps are the collaborators shared by every board.
type Deps struct {
	Identity identity.Provider
	Uploader assets.Uploader
	Notifier Notifier
	Logger   *slog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Identity == nil {
		d.Identity = identity.Anonymous
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Notifier == nil {
		d.Notifier = NewLogNotifier(d.Logger)
	}
	return d
}

type view struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newView(parent context.Context) view {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return view{ctx: ctx, cancel: cancel}
}

// Close cancels in-flight requests. Results that arrive afterwards are
// discarded.
func (v *view) Close() { v.cancel() }

func (v *view) Closed() bool { return v.ctx.Err() != nil }

// bind derives a request context that is cancelled by either ctx or the view.
func (v *view) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(v.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (v *view) alive() error {
	if v.Closed() {
		return ErrViewClosed
	}
	return nil
}
