package events

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const DefaultChannel = "loan_events"

// NotifySink menyiarkan event lewat pg_notify supaya proses lain (worker notifikasi) bisa LISTEN.
type NotifySink struct {
	DB      *gorm.DB
	Channel string
}

func (s NotifySink) Publish(ctx context.Context, e Event) error {
	payload, err := Encode(e)
	if err != nil {
		return err
	}
	ch := s.Channel
	if ch == "" {
		ch = DefaultChannel
	}
	if err := s.DB.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", ch, payload).Error; err != nil {
		return fmt.Errorf("pg_notify: %w", err)
	}
	return nil
}

func Encode(e Event) (string, error) {
	b, err := sonic.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("encode event: %w", err)
	}
	return string(b), nil
}

func Decode(payload string) (Event, error) {
	var e Event
	if err := sonic.UnmarshalString(payload, &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	return e, nil
}

// Listener berlangganan channel Postgres dan meneruskan event ke Handle.
type Listener struct {
	DSN     string
	Channel string
	Log     *zap.Logger
	Handle  func(Event)
}

func (l *Listener) Run(ctx context.Context) error {
	ch := l.Channel
	if ch == "" {
		ch = DefaultChannel
	}
	ln := pq.NewListener(l.DSN, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			l.Log.Warn("[LISTEN] koneksi bermasalah", zap.Int("event", int(ev)), zap.Error(err))
		}
	})
	defer ln.Close()

	if err := ln.Listen(ch); err != nil {
		return fmt.Errorf("listen %s: %w", ch, err)
	}
	l.Log.Info("[LISTEN] mendengarkan event", zap.String("channel", ch))

	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-ln.Notify:
			if n == nil {
				// koneksi tersambung ulang; notifikasi selama putus hilang
				continue
			}
			e, err := Decode(n.Extra)
			if err != nil {
				l.Log.Warn("[LISTEN] payload tidak valid", zap.Error(err))
				continue
			}
			l.Handle(e)
		case <-ping.C:
			if err := ln.Ping(); err != nil {
				l.Log.Warn("[LISTEN] ping gagal", zap.Error(err))
			}
		}
	}
}
