package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"simpus_backend/internals/constants"
	"simpus_backend/internals/features/library/transactions/events"
	"simpus_backend/internals/features/library/transactions/model"
	"simpus_backend/internals/features/library/transactions/repository"
	"simpus_backend/internals/helpers/dbtime"
)

// ComputeOverdueSet: pinjaman yang belum kembali dan jatuh temponya sebelum asOf.
// Status tertutup (returned, lost, damaged, requested, rejected) tidak ikut.
// Operasi sistem, tanpa Actor; guard HTTP ada di route.
func (s *LoanService) ComputeOverdueSet(ctx context.Context, asOf time.Time) ([]model.TransactionModel, error) {
	if asOf.IsZero() {
		asOf = s.today()
	}
	v, err := loadVocab(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return s.store.ListOverdue(ctx, repository.OverdueQuery{
		AsOf:             dbtime.DateOf(asOf),
		ExcludeStatusIDs: v.ids(constants.ClosedStatusCodes...),
	})
}

// SweepOverdue memindahkan borrowed yang lewat jatuh tempo ke overdue dengan denda status overdue.
// Setiap pinjaman diproses dalam transaksi sendiri; kegagalan dikumpulkan lalu dikembalikan bersama.
func (s *LoanService) SweepOverdue(ctx context.Context, asOf time.Time) (int, error) {
	if asOf.IsZero() {
		asOf = s.today()
	}
	asOf = dbtime.DateOf(asOf)
	if asOf.After(s.today()) {
		// sweep ke depan akan menandai pinjaman yang belum jatuh tempo
		return 0, validationf("as_of tidak boleh melewati hari ini")
	}

	v, err := loadVocab(ctx, s.store)
	if err != nil {
		return 0, err
	}
	rows, err := s.store.ListOverdue(ctx, repository.OverdueQuery{
		AsOf:          asOf,
		OnlyStatusIDs: v.ids(constants.StatusBorrowed),
	})
	if err != nil {
		return 0, err
	}

	var (
		moved int
		errs  []error
	)
	penalty := v.amount(constants.StatusOverdue)
	for i := range rows {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		loan := rows[i]
		var ev *events.Event
		err := s.store.WithTx(ctx, func(tx repository.Store) error {
			ok, err := tx.Transition(ctx, loan.TransactionID, v.ids(constants.StatusBorrowed), repository.Transition{
				StatusID:           v.id(constants.StatusOverdue),
				PenaltyTotal:       &penalty,
				RequireOutstanding: true,
			})
			if err != nil || !ok {
				// !ok: sudah dikembalikan/diubah oleh request lain
				return err
			}
			loan.TransactionStatusID = v.id(constants.StatusOverdue)
			loan.TransactionPenaltyTotal = penalty
			e := s.newEvent(events.LoanOverdue, &loan, constants.StatusOverdue)
			ev = &e
			return nil
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ev != nil {
			moved++
			s.publish(ctx, []events.Event{*ev})
		}
	}

	if moved > 0 || len(errs) > 0 {
		s.log.Info("[SWEEP] overdue diperbarui",
			zap.String("as_of", asOf.Format(dbtime.DateLayout)),
			zap.Int("moved", moved),
			zap.Int("errors", len(errs)),
		)
	}
	return moved, errors.Join(errs...)
}
