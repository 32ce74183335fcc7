package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"simpus_backend/internals/features/library/transactions/model"
	"simpus_backend/internals/features/library/transactions/repository"
)

const codePrefix = "TRX"

// randomCode: TRX-YYYYMMDD-XXXX, XXXX = 0001..9999.
func randomCode(day time.Time, intN func(int) int) string {
	return fmt.Sprintf("%s-%s-%04d", codePrefix, day.Format("20060102"), intN(9999)+1)
}

// fallbackCode dipakai setelah semua kandidat acak bentrok.
func fallbackCode(day time.Time) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s-%s-%s", codePrefix, day.Format("20060102"), strings.ToUpper(hex[:12]))
}

// insertWithCode memberi kode unik lalu menyimpan loan. Jumlah percobaan dibatasi
// policy.MaxCodeAttempts, ditambah satu kandidat fallback.
func (s *LoanService) insertWithCode(ctx context.Context, tx repository.Store, loan *model.TransactionModel, day time.Time) error {
	for attempt := 1; attempt <= s.policy.MaxCodeAttempts; attempt++ {
		ok, err := s.tryCode(ctx, tx, loan, randomCode(day, s.intN))
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}

	code := fallbackCode(day)
	s.log.Warn("[LOAN] kode acak habis, pakai fallback",
		zap.Int("attempts", s.policy.MaxCodeAttempts),
		zap.String("code", code),
	)
	ok, err := s.tryCode(ctx, tx, loan, code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCodeGenerationExhausted
	}
	return nil
}

func (s *LoanService) tryCode(ctx context.Context, tx repository.Store, loan *model.TransactionModel, code string) (bool, error) {
	exists, err := tx.CodeExists(ctx, code)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	loan.TransactionCode = code
	err = tx.InsertTransaction(ctx, loan)
	if errors.Is(err, repository.ErrDuplicateCode) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
