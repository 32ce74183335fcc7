package service

import (
	"context"
	"fmt"
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

// RequestLoan: anggota mengajukan pinjaman sendiri. Tanggal diisi saat disetujui petugas.
func (s *LoanService) RequestLoan(ctx context.Context, actor Actor, bookID uuid.UUID) (*model.TransactionModel, error) {
	if err := s.authorize(actor, access.ActionLoanRequest); err != nil {
		return nil, err
	}
	if actor.UserID == uuid.Nil {
		return nil, validationf("anggota tidak dikenali")
	}

	var out *model.TransactionModel
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		v, err := loadVocab(ctx, tx)
		if err != nil {
			return err
		}
		if err := s.checkBorrowable(ctx, tx, bookID, actor.UserID); err != nil {
			return err
		}
		loan := newLoan(bookID, actor.UserID, v.id(constants.StatusRequested), nil, nil, &actor.UserID)
		if err := s.insertWithCode(ctx, tx, loan, s.today()); err != nil {
			return err
		}
		out = loan
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, []events.Event{s.newEvent(events.LoanRequested, out, constants.StatusRequested)})
	return out, nil
}

// ApproveLoan mengubah requested → borrowed. borrowDate kosong berarti hari ini.
func (s *LoanService) ApproveLoan(ctx context.Context, actor Actor, id uuid.UUID, borrowDate time.Time) (*model.TransactionModel, error) {
	if err := s.authorize(actor, access.ActionLoanApprove); err != nil {
		return nil, err
	}
	borrow := s.today()
	if !borrowDate.IsZero() {
		borrow = dbtime.DateOf(borrowDate)
	}

	var out *model.TransactionModel
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		v, err := loadVocab(ctx, tx)
		if err != nil {
			return err
		}
		loan, err := tx.FindTransaction(ctx, id, true)
		if err != nil {
			return mapStoreErr(err)
		}
		if code := v.codeOf(loan.TransactionStatusID); code != constants.StatusRequested {
			return fmt.Errorf("%w: status saat ini %s", ErrInvalidStateTransition, code)
		}
		if err := s.checkBorrowable(ctx, tx, loan.TransactionBookID, loan.TransactionUserID); err != nil {
			return err
		}
		period, err := s.loanPeriod(ctx, tx, 0)
		if err != nil {
			return err
		}
		if err := s.takeCopy(ctx, tx, loan.TransactionBookID); err != nil {
			return err
		}

		due := dbtime.AddDays(borrow, period)
		ok, err := tx.Transition(ctx, id, v.ids(constants.StatusRequested), repository.Transition{
			StatusID:           v.id(constants.StatusBorrowed),
			BorrowDate:         &borrow,
			DueDate:            &due,
			RequireOutstanding: true,
		})
		if err != nil {
			return err
		}
		if !ok {
			return s.reloadStateError(ctx, tx, v, id)
		}
		out, err = tx.FindTransaction(ctx, id, false)
		return mapStoreErr(err)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("[LOAN] pengajuan disetujui", zap.String("code", out.TransactionCode))
	s.publish(ctx, []events.Event{s.newEvent(events.LoanCreated, out, constants.StatusBorrowed)})
	return out, nil
}

// RejectLoan mengubah requested → rejected.
func (s *LoanService) RejectLoan(ctx context.Context, actor Actor, id uuid.UUID) (*model.TransactionModel, error) {
	if err := s.authorize(actor, access.ActionLoanReject); err != nil {
		return nil, err
	}

	var out *model.TransactionModel
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		v, err := loadVocab(ctx, tx)
		if err != nil {
			return err
		}
		penalty := v.amount(constants.StatusRejected)
		ok, err := tx.Transition(ctx, id, v.ids(constants.StatusRequested), repository.Transition{
			StatusID:     v.id(constants.StatusRejected),
			PenaltyTotal: &penalty,
		})
		if err != nil {
			return err
		}
		if !ok {
			return s.reloadStateError(ctx, tx, v, id)
		}
		out, err = tx.FindTransaction(ctx, id, false)
		return mapStoreErr(err)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, []events.Event{s.newEvent(events.LoanRejected, out, constants.StatusRejected)})
	return out, nil
}
