package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"simpus_backend/internals/databases/dbtest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu     sync.Mutex
	events []Event
	block  chan struct{}
}

func (r *recorder) Publish(_ context.Context, e Event) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func sample(t Type) Event {
	due := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	return Event{
		ID:            uuid.New(),
		Type:          t,
		TransactionID: uuid.New(),
		Code:          "TRX-20240101-0042",
		BookID:        uuid.New(),
		MemberID:      uuid.New(),
		StatusCode:    "borrowed",
		DueDate:       &due,
		OccurredAt:    time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestAsyncSinkDeliversAndDrainsOnClose(t *testing.T) {
	rec := &recorder{}
	a := NewAsyncSink(rec, 8, zap.NewNop())

	for i := 0; i < 5; i++ {
		require.NoError(t, a.Publish(context.Background(), sample(LoanCreated)))
	}
	require.NoError(t, a.Close(context.Background()))
	require.Equal(t, 5, rec.len())

	// setelah Close publish diabaikan tanpa panic
	require.NoError(t, a.Publish(context.Background(), sample(LoanCreated)))
	require.Equal(t, 5, rec.len())
}

func TestAsyncSinkDropsWhenFull(t *testing.T) {
	rec := &recorder{block: make(chan struct{})}
	a := NewAsyncSink(rec, 1, zap.NewNop())

	// event pertama diambil worker (tertahan di block), kedua mengisi buffer,
	// sisanya dibuang
	for i := 0; i < 10; i++ {
		require.NoError(t, a.Publish(context.Background(), sample(LoanReturned)))
		time.Sleep(time.Millisecond)
	}
	close(rec.block)
	require.NoError(t, a.Close(context.Background()))
	require.Less(t, rec.len(), 10)
	require.GreaterOrEqual(t, rec.len(), 1)
}

func TestMultiCallsEverySinkAndJoinsErrors(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("boom")
	m := Multi{
		SinkFunc(func(context.Context, Event) error { return boom }),
		nil,
		rec,
	}
	err := m.Publish(context.Background(), sample(PenaltyAssessed))
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, rec.len())
}

func TestEncodeDecodeRoundTripKeepsDates(t *testing.T) {
	in := sample(LoanOverdue)
	payload, err := Encode(in)
	require.NoError(t, err)
	require.Contains(t, payload, `"type":"loan.overdue"`)

	out, err := Decode(payload)
	require.NoError(t, err)
	require.Equal(t, in.TransactionID, out.TransactionID)
	require.True(t, in.DueDate.Equal(*out.DueDate))
}

func TestOutboxSinkPersistsPayload(t *testing.T) {
	db := dbtest.Open(t, &LoanEventModel{})
	e := sample(LoanCreated)

	require.NoError(t, OutboxSink{DB: db}.Publish(context.Background(), e))

	var row LoanEventModel
	require.NoError(t, db.First(&row, "loan_event_id = ?", e.ID).Error)
	require.Equal(t, string(LoanCreated), row.LoanEventType)
	require.Equal(t, e.MemberID, row.LoanEventMemberID)

	decoded, err := Decode(string(row.LoanEventPayload))
	require.NoError(t, err)
	require.Equal(t, e.Code, decoded.Code)
}
