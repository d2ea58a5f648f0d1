package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dovetail-ui/dovetail/internal/node"
	"github.com/dovetail-ui/dovetail/internal/resolve"
)

func TestStoreRecorder_PersistsPassEvents(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec, err := NewStoreRecorder(ctx, store, "tok-1", "Button")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", rec.Token())

	def := &resolve.Definition{Component: "Button", Slots: []string{"default"}}
	res, err := resolve.New(def, []node.Child{
		node.NewContent("", node.Text("Add")),
	}, resolve.WithRecorder(rec))
	require.NoError(t, err)

	_, err = res.ResolveSlot("default", nil, nil)
	require.NoError(t, err)
	require.NoError(t, rec.Err())

	events, err := store.Pass(ctx, "tok-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, string(resolve.EventClassify), events[0].Kind)
	assert.Equal(t, string(resolve.EventSlotResolved), events[1].Kind)
	assert.Equal(t, "default", events[1].Slot)
}

func TestStoreRecorder_FirstErrorSticks(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec, err := NewStoreRecorder(ctx, store, "tok-1", "Button")
	require.NoError(t, err)

	// A closed store makes every append fail.
	require.NoError(t, store.Close())

	rec.Record(resolve.Event{Kind: resolve.EventClassify})
	first := rec.Err()
	require.Error(t, first)

	rec.Record(resolve.Event{Kind: resolve.EventSlotResolved, Slot: "default"})
	assert.Same(t, first, rec.Err())
}

func TestNewStoreRecorder_DuplicateToken(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := NewStoreRecorder(ctx, store, "tok", "Button")
	require.NoError(t, err)
	_, err = NewStoreRecorder(ctx, store, "tok", "Button")
	require.Error(t, err)
}
