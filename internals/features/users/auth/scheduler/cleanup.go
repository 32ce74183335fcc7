package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	authRepo "simpus_backend/internals/features/users/auth/repository"
)

const cleanupBatch = 100

// RunBlacklistCleanup menghapus token blacklist yang kadaluarsa lebih dari ttlDays hari,
// sekali saat start lalu tiap interval sampai ctx selesai.
func RunBlacklistCleanup(ctx context.Context, db *gorm.DB, ttlDays int, interval time.Duration, log *zap.Logger) error {
	if ttlDays < 0 {
		ttlDays = 0
	}
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	clean := func() {
		deleteBefore := time.Now().UTC().Add(-time.Duration(ttlDays) * 24 * time.Hour)
		var total int64
		for {
			n, err := authRepo.CleanupExpiredBlacklist(ctx, db, deleteBefore, cleanupBatch)
			if err != nil {
				log.Error("[CLEANUP ERROR] gagal hapus token kadaluarsa", zap.Error(err))
				return
			}
			total += n
			if n < cleanupBatch {
				break
			}
		}
		if total > 0 {
			log.Info("[CLEANUP] token kadaluarsa dihapus", zap.Int64("count", total))
		}
	}

	clean()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			clean()
		}
	}
}
