// Package library ties parsing, local storage and remote upload together:
// every route is kept locally first and queued whenever it could not be
// pushed to the remote store.
package library

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/planbiir/gpxroute/internal/route"
	"github.com/planbiir/gpxroute/internal/store"
	"github.com/planbiir/gpxroute/internal/timeutil"
)

var (
	// ErrStorageLimit means the upload would push usage past the quota.
	ErrStorageLimit = errors.New("storage limit exceeded")

	// ErrOffline means Sync was called without a remote store.
	ErrOffline = errors.New("no remote store configured")
)

// Uploader is the remote route store.
type Uploader interface {
	UploadRoute(ctx context.Context, r *route.Route, source []byte) error
	DeleteRoute(ctx context.Context, id string) error
}

// Library is the local route collection.
type Library struct {
	store     *store.Store
	uploader  Uploader
	clock     timeutil.Clock
	limit     int64
	parseOpts []route.Option
}

// Option configures a Library.
type Option func(*Library)

// WithUploader connects the library to a remote store.
func WithUploader(u Uploader) Option {
	return func(l *Library) { l.uploader = u }
}

// WithClock sets the clock used for sync timestamps and route dates.
func WithClock(c timeutil.Clock) Option {
	return func(l *Library) { l.clock = c }
}

// WithStorageLimit caps the total stored source bytes; 0 means no cap.
func WithStorageLimit(bytes int64) Option {
	return func(l *Library) { l.limit = bytes }
}

// WithParseOptions passes options through to route.ParseBytes.
func WithParseOptions(opts ...route.Option) Option {
	return func(l *Library) { l.parseOpts = append(l.parseOpts, opts...) }
}

// New creates a Library over an open store.
func New(s *store.Store, opts ...Option) *Library {
	l := &Library{store: s, clock: timeutil.RealClock{}}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddRoute checks the quota, parses the file, stores it locally and tries
// to upload it. A failed or impossible upload queues the route for Sync
// and is not an error; parse and quota failures leave the library untouched.
func (l *Library) AddRoute(ctx context.Context, fileName string, source []byte) (*route.Route, error) {
	if l.limit > 0 {
		usage, err := l.store.UsageBytes(ctx)
		if err != nil {
			return nil, err
		}
		if usage+int64(len(source)) > l.limit {
			return nil, fmt.Errorf("%w: %d + %d bytes over %d", ErrStorageLimit, usage, len(source), l.limit)
		}
	}

	opts := append([]route.Option{route.WithClock(l.clock)}, l.parseOpts...)
	r, err := route.ParseBytes(source, fileName, opts...)
	if err != nil {
		return nil, err
	}

	if err := l.store.SaveRoute(ctx, r, source); err != nil {
		return nil, err
	}

	if l.uploader == nil {
		return r, l.store.MarkForSync(ctx, store.KindRoute, r.ID, l.clock.Now())
	}

	if err := l.uploader.UploadRoute(ctx, r, source); err != nil {
		log.Printf("[library] upload of %s failed, queued for sync: %v", r.ID, err)
		if err := l.store.MarkForSync(ctx, store.KindRoute, r.ID, l.clock.Now()); err != nil {
			return r, err
		}
		return r, l.store.RecordSyncFailure(ctx, store.KindRoute, r.ID, err)
	}

	return r, nil
}

// GetRoute returns a stored route.
func (l *Library) GetRoute(ctx context.Context, id string) (*route.Route, error) {
	return l.store.GetRoute(ctx, id)
}

// ListRoutes returns stored routes, newest first.
func (l *Library) ListRoutes(ctx context.Context) ([]store.Summary, error) {
	return l.store.ListRoutes(ctx)
}

// DeleteRoute removes a route locally, then remotely. A remote failure is
// logged and does not undo the local delete.
func (l *Library) DeleteRoute(ctx context.Context, id string) error {
	if err := l.store.DeleteRoute(ctx, id); err != nil {
		return err
	}

	if l.uploader != nil {
		if err := l.uploader.DeleteRoute(ctx, id); err != nil {
			log.Printf("[library] remote delete of %s failed: %v", id, err)
		}
	}
	return nil
}

// SyncResult counts what one Sync pass achieved.
type SyncResult struct {
	Synced  int
	Failed  int
	Dropped int
}

// Sync uploads every queued route. Routes deleted since they were queued
// are dropped from the queue; failures stay queued with their error.
func (l *Library) Sync(ctx context.Context) (SyncResult, error) {
	var res SyncResult
	if l.uploader == nil {
		return res, ErrOffline
	}

	pending, err := l.store.PendingSync(ctx)
	if err != nil {
		return res, err
	}

	for _, item := range pending {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if item.Kind != store.KindRoute {
			continue
		}

		r, err := l.store.GetRoute(ctx, item.ID)
		if errors.Is(err, store.ErrNotFound) {
			if err := l.store.ClearSync(ctx, item.Kind, item.ID); err != nil {
				return res, err
			}
			res.Dropped++
			continue
		}
		if err != nil {
			return res, err
		}

		source, err := l.store.GetSource(ctx, item.ID)
		if err != nil {
			return res, err
		}

		if err := l.uploader.UploadRoute(ctx, r, source); err != nil {
			log.Printf("[library] sync of %s failed (attempt %d): %v", item.ID, item.Attempts+1, err)
			if err := l.store.RecordSyncFailure(ctx, item.Kind, item.ID, err); err != nil {
				return res, err
			}
			res.Failed++
			continue
		}

		if err := l.store.ClearSync(ctx, item.Kind, item.ID); err != nil {
			return res, err
		}
		res.Synced++
	}

	return res, nil
}
