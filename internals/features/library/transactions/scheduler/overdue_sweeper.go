package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"simpus_backend/internals/helpers/dbtime"
)

// Sweeper dipenuhi oleh service.LoanService.
type Sweeper interface {
	SweepOverdue(ctx context.Context, asOf time.Time) (int, error)
}

// RunOverdueSweeper menjalankan sweep sekali saat start lalu tiap interval,
// sampai ctx selesai.
func RunOverdueSweeper(ctx context.Context, s Sweeper, interval time.Duration, loc *time.Location, log *zap.Logger) error {
	if interval <= 0 {
		interval = time.Hour
	}
	log.Info("[SWEEP] scheduler overdue aktif", zap.Duration("interval", interval))

	sweep := func() {
		asOf := dbtime.Today(time.Now(), loc)
		n, err := s.SweepOverdue(ctx, asOf)
		if err != nil {
			log.Error("[SWEEP ERROR] sweep overdue gagal", zap.Int("moved", n), zap.Error(err))
			return
		}
		if n == 0 {
			log.Debug("[SWEEP] tidak ada pinjaman baru yang terlambat")
		}
	}

	sweep()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("[SWEEP] scheduler overdue berhenti")
			return nil
		case <-t.C:
			sweep()
		}
	}
}
