package trace

import (
	"context"

	"github.com/dovetail-ui/dovetail/internal/resolve"
)

// StoreRecorder adapts a Store to the resolve.Recorder interface.
//
// Recorder callbacks cannot return errors (the engine must stay pure and
// oblivious to instrumentation), so append failures are retained and
// surfaced via Err after the pass.
type StoreRecorder struct {
	store *Store
	token string
	ctx   context.Context
	err   error
}

// NewStoreRecorder registers a pass and returns a recorder bound to it.
func NewStoreRecorder(ctx context.Context, store *Store, token, component string) (*StoreRecorder, error) {
	if err := store.BeginPass(ctx, token, component); err != nil {
		return nil, err
	}
	return &StoreRecorder{store: store, token: token, ctx: ctx}, nil
}

// Record appends the event to the store. The first failure sticks; later
// events are dropped to keep the log free of gaps after an error.
func (r *StoreRecorder) Record(ev resolve.Event) {
	if r.err != nil {
		return
	}
	r.err = r.store.Append(r.ctx, r.token, string(ev.Kind), ev.Slot, ev.Detail)
}

// Err reports the first append failure, if any.
func (r *StoreRecorder) Err() error {
	return r.err
}

// Token returns the pass token this recorder writes under.
func (r *StoreRecorder) Token() string {
	return r.token
}
