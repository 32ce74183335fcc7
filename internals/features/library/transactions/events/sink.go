package events

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// LogSink mencatat event ke log terstruktur.
type LogSink struct {
	Log *zap.Logger
}

func (s LogSink) Publish(_ context.Context, e Event) error {
	s.Log.Info("[EVENT] "+string(e.Type),
		zap.String("transaction_id", e.TransactionID.String()),
		zap.String("code", e.Code),
		zap.String("member_id", e.MemberID.String()),
		zap.String("status", e.StatusCode),
		zap.Int64("penalty_total", e.PenaltyTotal),
	)
	return nil
}

// Multi meneruskan ke semua sink; error digabung, sink lain tetap dipanggil.
type Multi []Sink

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AsyncSink memisahkan publisher dari sink lambat lewat buffered channel.
// Kalau buffer penuh event dibuang dengan warning; request tidak pernah menunggu.
type AsyncSink struct {
	next Sink
	log  *zap.Logger
	ch   chan Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewAsyncSink(next Sink, buffer int, log *zap.Logger) *AsyncSink {
	if buffer <= 0 {
		buffer = 1
	}
	a := &AsyncSink{
		next: next,
		log:  log,
		ch:   make(chan Event, buffer),
		done: make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *AsyncSink) run() {
	defer close(a.done)
	for e := range a.ch {
		if err := a.next.Publish(context.Background(), e); err != nil {
			a.log.Warn("[EVENT] gagal kirim event",
				zap.String("type", string(e.Type)),
				zap.String("transaction_id", e.TransactionID.String()),
				zap.Error(err),
			)
		}
	}
}

func (a *AsyncSink) Publish(_ context.Context, e Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return nil
	}
	select {
	case a.ch <- e:
	default:
		a.log.Warn("[EVENT] buffer penuh, event dibuang",
			zap.String("type", string(e.Type)),
			zap.String("transaction_id", e.TransactionID.String()),
		)
	}
	return nil
}

// Close berhenti menerima event lalu menunggu antrian habis atau ctx selesai.
func (a *AsyncSink) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.ch)
	}
	a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
