package audit_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vigirisco/internal/audit"
	"vigirisco/internal/audit/store/memory"
)

// failingStore simulates a log store that is unavailable.
type failingStore struct {
	calls int
}

func (f *failingStore) Append(context.Context, audit.Entry) error {
	f.calls++
	return errors.New("store unavailable")
}

func (f *failingStore) ListRecent(context.Context, int) ([]audit.Entry, error) {
	return nil, errors.New("store unavailable")
}

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func TestRecordSwallowsStoreFailure(t *testing.T) {
	store := &failingStore{}
	var buf bytes.Buffer
	recorder := audit.NewRecorder(store, newTestLogger(&buf), nil)

	// Must not panic and must not surface the error in any way.
	recorder.Record(context.Background(), audit.Entry{
		Action:   audit.ActionInsert,
		Table:    audit.TableRumorEvento,
		RecordID: "17",
		OriginIP: "10.0.0.1",
	})

	assert.Equal(t, 1, store.calls)
	assert.Contains(t, buf.String(), "audit append failed")
}

func TestRecordDoesNotAlterPrimaryOutcome(t *testing.T) {
	// Simulates the caller discipline: the primary mutation commits, then the
	// audit write fails. The mutation's observable result must be unchanged.
	store := &failingStore{}
	recorder := audit.NewRecorder(store, newTestLogger(&bytes.Buffer{}), nil)

	committed := false
	mutate := func(ctx context.Context) (int64, error) {
		committed = true // primary write
		recorder.Record(ctx, audit.Entry{Action: audit.ActionInsert, Table: audit.TableComunicacao})
		return 42, nil
	}

	id, err := mutate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.True(t, committed)
	assert.Equal(t, 1, store.calls)
}

func TestRecordSurvivesCallerCancellation(t *testing.T) {
	// A caller disconnect must not abort the in-flight append.
	store := memory.NewInMemoryStore()
	recorder := audit.NewRecorder(store, newTestLogger(&bytes.Buffer{}), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	recorder.Record(ctx, audit.Entry{Action: audit.ActionLogin, Table: audit.TableLogin})

	require.Len(t, store.All(), 1)
}

func TestRecordAssignsTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	recorder := audit.NewRecorder(store, newTestLogger(&bytes.Buffer{}), nil)

	recorder.Record(context.Background(), audit.Entry{Action: audit.ActionUpdate})

	entries := store.All()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].RecordedAt.IsZero())
}

func TestEntriesAreAppendOnly(t *testing.T) {
	// A "correction" is a new entry; prior entries are untouched.
	store := memory.NewInMemoryStore()
	recorder := audit.NewRecorder(store, newTestLogger(&bytes.Buffer{}), nil)
	ctx := context.Background()

	actorID, actorName := audit.Actor(7, "Maria")
	recorder.Record(ctx, audit.Entry{
		ActorID: actorID, ActorName: actorName,
		Action: audit.ActionInsert, Table: audit.TableRumorEvento, RecordID: "1",
	})
	recorder.Record(ctx, audit.Entry{
		ActorID: actorID, ActorName: actorName,
		Action: audit.ActionUpdate, Table: audit.TableRumorEvento, RecordID: "1",
	})

	entries := store.All()
	require.Len(t, entries, 2)
	assert.Equal(t, audit.ActionInsert, entries[0].Action)
	assert.Equal(t, audit.ActionUpdate, entries[1].Action)
}

func TestCoerceID(t *testing.T) {
	assert.Equal(t, "17", audit.CoerceID(int64(17)))
	assert.Equal(t, "17", audit.CoerceID("17"))
	assert.Equal(t, "", audit.CoerceID(nil))
}
