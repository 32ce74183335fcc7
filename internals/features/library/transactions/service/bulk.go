package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"simpus_backend/internals/constants"
	"simpus_backend/internals/features/access"
	"simpus_backend/internals/features/library/transactions/events"
	"simpus_backend/internals/features/library/transactions/model"
	"simpus_backend/internals/features/library/transactions/repository"
	"simpus_backend/internals/helpers/dbtime"
)

const (
	SkipNotFound     = "not_found"
	SkipInvalidState = "invalid_state"
)

type SkippedItem struct {
	ID     uuid.UUID `json:"id"`
	Reason string    `json:"reason"`
}

type BulkResult struct {
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Skipped   []SkippedItem `json:"skipped"`
}

// BulkMarkReturned mengembalikan banyak pinjaman berstatus borrowed sekaligus pada tanggal yang sama.
// Id diproses berurutan, masing-masing dalam transaksi DB sendiri; id yang tidak memenuhi
// syarat dilewati dengan alasan, error tak terduga dihitung sebagai Failed.
func (s *LoanService) BulkMarkReturned(ctx context.Context, actor Actor, ids []uuid.UUID, returnDate time.Time) (BulkResult, error) {
	res := BulkResult{Skipped: []SkippedItem{}}
	if err := s.authorize(actor, access.ActionLoanBulkReturn); err != nil {
		return res, err
	}
	if returnDate.IsZero() {
		returnDate = s.today()
	}
	ret := dbtime.DateOf(returnDate)

	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if err := ctx.Err(); err != nil {
			return res, err
		}

		evs, err := s.returnOneBorrowed(ctx, id, ret)
		switch {
		case err == nil:
			res.Succeeded++
			s.publish(ctx, evs)
		case errors.Is(err, ErrNotFound):
			res.Skipped = append(res.Skipped, SkippedItem{ID: id, Reason: SkipNotFound})
		case errors.Is(err, ErrInvalidStateTransition), errors.Is(err, ErrValidation):
			res.Skipped = append(res.Skipped, SkippedItem{ID: id, Reason: SkipInvalidState})
		default:
			res.Failed++
			s.log.Error("[LOAN] bulk return gagal", zap.String("transaction_id", id.String()), zap.Error(err))
		}
	}

	s.log.Info("[LOAN] bulk return selesai",
		zap.Int("succeeded", res.Succeeded),
		zap.Int("skipped", len(res.Skipped)),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}

// returnOneBorrowed hanya menyentuh pinjaman berstatus borrowed; penalti dihitung seperti RecordReturn.
func (s *LoanService) returnOneBorrowed(ctx context.Context, id uuid.UUID, ret time.Time) ([]events.Event, error) {
	var evs []events.Event
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		v, err := loadVocab(ctx, tx)
		if err != nil {
			return err
		}
		loan, err := tx.FindTransaction(ctx, id, true)
		if err != nil {
			return mapStoreErr(err)
		}
		code := v.codeOf(loan.TransactionStatusID)
		if code != constants.StatusBorrowed || !loan.Outstanding() {
			return stateError(loan, code)
		}
		if loan.TransactionBorrowDate != nil && ret.Before(dbtime.DateOf(*loan.TransactionBorrowDate)) {
			return validationf("tanggal kembali sebelum tanggal pinjam")
		}

		next, penalty := returnOutcome(loan, ret, v)
		ok, err := tx.Transition(ctx, id, v.ids(constants.StatusBorrowed), repository.Transition{
			StatusID:           v.id(next),
			ReturnDate:         &ret,
			PenaltyTotal:       &penalty,
			RequireOutstanding: true,
		})
		if err != nil {
			return err
		}
		if !ok {
			return s.reloadStateError(ctx, tx, v, id)
		}
		if err := s.returnCopy(ctx, tx, loan.TransactionBookID); err != nil {
			return err
		}
		if err := s.assessPenalty(ctx, tx, loan, next, penalty); err != nil {
			return err
		}
		out, err := tx.FindTransaction(ctx, id, false)
		if err != nil {
			return mapStoreErr(err)
		}
		evs = append(evs, s.newEvent(events.LoanReturned, out, next))
		if penalty > 0 {
			evs = append(evs, s.newEvent(events.PenaltyAssessed, out, next))
		}
		return nil
	})
	return evs, err
}

// returnOutcome untuk pinjaman borrowed: lewat jatuh tempo → overdue + denda, selain itu returned.
func returnOutcome(loan *model.TransactionModel, ret time.Time, v vocab) (string, int64) {
	if loan.TransactionDueDate != nil && ret.After(dbtime.DateOf(*loan.TransactionDueDate)) {
		return constants.StatusOverdue, v.amount(constants.StatusOverdue)
	}
	return constants.StatusReturned, 0
}
