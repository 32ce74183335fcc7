package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"simpus_backend/internals/constants"
	"simpus_backend/internals/features/access"
	penaltyModel "simpus_backend/internals/features/library/penalties/model"
	statusModel "simpus_backend/internals/features/library/statuses/model"
	"simpus_backend/internals/features/library/transactions/events"
	"simpus_backend/internals/features/library/transactions/model"
	"simpus_backend/internals/features/library/transactions/repository"
	"simpus_backend/internals/helpers/dbtime"
)

// Actor adalah pengguna yang memicu operasi (diisi dari JWT).
type Actor struct {
	UserID uuid.UUID
	Role   string
}

type LoanService struct {
	store  repository.Store
	access access.Checker
	sink   events.Sink
	log    *zap.Logger
	now    func() time.Time
	loc    *time.Location
	intN   func(int) int
	policy Policy
}

func NewLoanService(store repository.Store, checker access.Checker, sink events.Sink, opts ...Option) *LoanService {
	if sink == nil {
		sink = events.Discard{}
	}
	s := &LoanService{
		store:  store,
		access: checker,
		sink:   sink,
		log:    zap.NewNop(),
		now:    time.Now,
		loc:    time.UTC,
		intN:   defaultIntN,
		policy: defaultPolicy(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateLoanInput struct {
	BookID     uuid.UUID
	MemberID   uuid.UUID
	BorrowDate time.Time
	// 0 = pakai settings/policy
	LoanPeriodDays int
}

type DamageSeverity string

const (
	DamageMinor  DamageSeverity = "minor"
	DamageSevere DamageSeverity = "severe"
)

func (s *LoanService) authorize(actor Actor, action access.Action) error {
	if s.access == nil || !s.access.Allowed(actor.Role, action) {
		return fmt.Errorf("%w: %s", ErrForbidden, action)
	}
	return nil
}

func (s *LoanService) today() time.Time {
	return dbtime.Today(s.now(), s.loc)
}

// ==========================
// CREATE LOAN
// ==========================

// CreateLoan mencatat peminjaman langsung di meja sirkulasi (status borrowed).
func (s *LoanService) CreateLoan(ctx context.Context, actor Actor, in CreateLoanInput) (*model.TransactionModel, error) {
	if err := s.authorize(actor, access.ActionLoanCreate); err != nil {
		return nil, err
	}
	if in.BorrowDate.IsZero() {
		return nil, validationf("tanggal pinjam wajib diisi")
	}
	if in.LoanPeriodDays < 0 {
		return nil, validationf("lama pinjam tidak boleh negatif")
	}
	borrow := dbtime.DateOf(in.BorrowDate)

	var (
		out *model.TransactionModel
		evs []events.Event
	)
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		v, err := loadVocab(ctx, tx)
		if err != nil {
			return err
		}
		if err := s.checkBorrowable(ctx, tx, in.BookID, in.MemberID); err != nil {
			return err
		}
		period, err := s.loanPeriod(ctx, tx, in.LoanPeriodDays)
		if err != nil {
			return err
		}
		if err := s.takeCopy(ctx, tx, in.BookID); err != nil {
			return err
		}

		due := dbtime.AddDays(borrow, period)
		loan := newLoan(in.BookID, in.MemberID, v.id(constants.StatusBorrowed), &borrow, &due, &actor.UserID)
		if err := s.insertWithCode(ctx, tx, loan, borrow); err != nil {
			return err
		}
		out = loan
		evs = append(evs, s.newEvent(events.LoanCreated, loan, constants.StatusBorrowed))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("[LOAN] pinjaman dibuat",
		zap.String("code", out.TransactionCode),
		zap.String("member_id", out.TransactionUserID.String()),
		zap.String("due", out.TransactionDueDate.Format(dbtime.DateLayout)),
	)
	s.publish(ctx, evs)
	return out, nil
}

// newLoan merakit transaksi baru yang sudah lengkap; penyimpanan dilakukan terpisah.
func newLoan(bookID, memberID, statusID uuid.UUID, borrow, due *time.Time, createdBy *uuid.UUID) *model.TransactionModel {
	m := &model.TransactionModel{
		TransactionID:           uuid.New(),
		TransactionBookID:       bookID,
		TransactionUserID:       memberID,
		TransactionStatusID:     statusID,
		TransactionBorrowDate:   borrow,
		TransactionDueDate:      due,
		TransactionPenaltyTotal: 0,
	}
	if createdBy != nil && *createdBy != uuid.Nil {
		id := *createdBy
		m.TransactionCreatedBy = &id
	}
	return m
}

func (s *LoanService) checkBorrowable(ctx context.Context, tx repository.Store, bookID, memberID uuid.UUID) error {
	if _, err := tx.FindBook(ctx, bookID); err != nil {
		return mapStoreErr(err)
	}
	m, err := tx.FindMember(ctx, memberID)
	if err != nil {
		return mapStoreErr(err)
	}
	if !m.IsActive || !m.HasDetail || m.MembershipStatus != constants.MembershipActive {
		return ErrMembershipInactive
	}
	return nil
}

// loanPeriod: input eksplisit → settings.setting_limit_day → policy.
func (s *LoanService) loanPeriod(ctx context.Context, tx repository.Store, explicit int) (int, error) {
	if explicit > 0 {
		return explicit, nil
	}
	days, ok, err := tx.LoanPeriodDays(ctx)
	if err != nil {
		return 0, err
	}
	if ok {
		return days, nil
	}
	return s.policy.LoanPeriodDays, nil
}

func (s *LoanService) takeCopy(ctx context.Context, tx repository.Store, bookID uuid.UUID) error {
	if !s.policy.EnforceCopyCount {
		return nil
	}
	ok, err := tx.TakeCopy(ctx, bookID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoCopyAvailable
	}
	return nil
}

func (s *LoanService) returnCopy(ctx context.Context, tx repository.Store, bookID uuid.UUID) error {
	if !s.policy.EnforceCopyCount {
		return nil
	}
	return tx.ReturnCopy(ctx, bookID)
}

// ==========================
// RETURN
// ==========================

// RecordReturn mencatat buku kembali. Terlambat (return > due) menjadi overdue dengan
// denda status overdue; tepat waktu (termasuk di hari jatuh tempo) menjadi returned tanpa denda.
func (s *LoanService) RecordReturn(ctx context.Context, actor Actor, id uuid.UUID, returnDate time.Time) (*model.TransactionModel, error) {
	if err := s.authorize(actor, access.ActionLoanReturn); err != nil {
		return nil, err
	}
	return s.recordReturn(ctx, id, returnDate)
}

func (s *LoanService) recordReturn(ctx context.Context, id uuid.UUID, returnDate time.Time) (*model.TransactionModel, error) {
	if returnDate.IsZero() {
		return nil, validationf("tanggal kembali wajib diisi")
	}
	ret := dbtime.DateOf(returnDate)

	var (
		out *model.TransactionModel
		evs []events.Event
	)
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
		if !isOutstandingLoan(loan, code) {
			return stateError(loan, code)
		}
		if loan.TransactionBorrowDate != nil && ret.Before(dbtime.DateOf(*loan.TransactionBorrowDate)) {
			return validationf("tanggal kembali sebelum tanggal pinjam")
		}

		next, penalty := s.returnOutcome(loan, ret, v)

		ok, err := tx.Transition(ctx, id, v.ids(constants.OutstandingStatusCodes...), repository.Transition{
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

		out, err = tx.FindTransaction(ctx, id, false)
		if err != nil {
			return mapStoreErr(err)
		}
		evs = append(evs, s.newEvent(events.LoanReturned, out, next))
		if penalty > 0 {
			evs = append(evs, s.newEvent(events.PenaltyAssessed, out, next))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, evs)
	return out, nil
}

// returnOutcome hanya ditentukan oleh return > due. Pinjaman yang sudah di-sweep tetapi
// kembali tepat waktu (tanggal mundur) tetap returned tanpa denda.
func (s *LoanService) returnOutcome(loan *model.TransactionModel, ret time.Time, v vocab) (string, int64) {
	late := loan.TransactionDueDate != nil && ret.After(dbtime.DateOf(*loan.TransactionDueDate))
	if !late {
		return constants.StatusReturned, 0
	}
	if loan.TransactionPenaltyTotal > 0 {
		// denda sudah dihitung saat sweep; tidak dihitung ulang
		s.log.Info("[LOAN] denda keterlambatan sudah tercatat, tidak ditambah",
			zap.String("code", loan.TransactionCode),
			zap.Int64("penalty_total", loan.TransactionPenaltyTotal),
		)
		return constants.StatusOverdue, loan.TransactionPenaltyTotal
	}
	return constants.StatusOverdue, v.amount(constants.StatusOverdue)
}

// ==========================
// LOST / DAMAGED
// ==========================

// MarkLost menutup pinjaman yang masih berjalan sebagai hilang; denda diganti nominal status lost.
func (s *LoanService) MarkLost(ctx context.Context, actor Actor, id uuid.UUID) (*model.TransactionModel, error) {
	if err := s.authorize(actor, access.ActionLoanMarkLost); err != nil {
		return nil, err
	}
	return s.closeOutstanding(ctx, id, constants.StatusLost, events.LoanLost, false, false)
}

// MarkDamaged menutup pinjaman dengan buku kembali rusak. Rusak ringan kembali ke stok.
func (s *LoanService) MarkDamaged(ctx context.Context, actor Actor, id uuid.UUID, severity DamageSeverity) (*model.TransactionModel, error) {
	if err := s.authorize(actor, access.ActionLoanMarkDamaged); err != nil {
		return nil, err
	}
	switch severity {
	case DamageMinor:
		return s.closeOutstanding(ctx, id, constants.StatusDamagedMinor, events.LoanDamaged, true, true)
	case DamageSevere:
		return s.closeOutstanding(ctx, id, constants.StatusDamagedSevere, events.LoanDamaged, true, false)
	default:
		return nil, validationf("tingkat kerusakan %q tidak dikenal", severity)
	}
}

func (s *LoanService) closeOutstanding(ctx context.Context, id uuid.UUID, next string, evType events.Type, bookCameBack, backToShelf bool) (*model.TransactionModel, error) {
	var (
		out *model.TransactionModel
		evs []events.Event
	)
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
		if !isOutstandingLoan(loan, code) {
			return stateError(loan, code)
		}

		penalty := v.amount(next)
		t := repository.Transition{
			StatusID:           v.id(next),
			PenaltyTotal:       &penalty,
			RequireOutstanding: true,
		}
		if bookCameBack {
			ret := s.today()
			if loan.TransactionBorrowDate != nil && ret.Before(dbtime.DateOf(*loan.TransactionBorrowDate)) {
				ret = dbtime.DateOf(*loan.TransactionBorrowDate)
			}
			t.ReturnDate = &ret
		}

		ok, err := tx.Transition(ctx, id, v.ids(constants.OutstandingStatusCodes...), t)
		if err != nil {
			return err
		}
		if !ok {
			return s.reloadStateError(ctx, tx, v, id)
		}
		if backToShelf {
			if err := s.returnCopy(ctx, tx, loan.TransactionBookID); err != nil {
				return err
			}
		}
		if err := s.assessPenalty(ctx, tx, loan, next, penalty); err != nil {
			return err
		}

		out, err = tx.FindTransaction(ctx, id, false)
		if err != nil {
			return mapStoreErr(err)
		}
		evs = append(evs, s.newEvent(evType, out, next))
		if penalty > 0 {
			evs = append(evs, s.newEvent(events.PenaltyAssessed, out, next))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("[LOAN] pinjaman ditutup",
		zap.String("code", out.TransactionCode),
		zap.String("status", next),
		zap.Int64("penalty_total", out.TransactionPenaltyTotal),
	)
	s.publish(ctx, evs)
	return out, nil
}

// assessPenalty membuat tagihan denda saat transaksi selesai dengan denda > 0.
func (s *LoanService) assessPenalty(ctx context.Context, tx repository.Store, loan *model.TransactionModel, reason string, amount int64) error {
	if amount <= 0 {
		return nil
	}
	return tx.InsertPenalty(ctx, &penaltyModel.PenaltyModel{
		PenaltyTransactionID: loan.TransactionID,
		PenaltyUserID:        loan.TransactionUserID,
		PenaltyAmount:        amount,
		PenaltyReason:        reason,
		PenaltyStatus:        constants.PenaltyUnpaid,
	})
}

// ==========================
// helpers
// ==========================

func isOutstandingLoan(loan *model.TransactionModel, code string) bool {
	if !loan.Outstanding() {
		return false
	}
	return code == constants.StatusBorrowed || code == constants.StatusOverdue
}

func stateError(loan *model.TransactionModel, code string) error {
	if !loan.Outstanding() && (code == constants.StatusReturned || code == constants.StatusOverdue) {
		return ErrAlreadyReturned
	}
	return fmt.Errorf("%w: status saat ini %s", ErrInvalidStateTransition, code)
}

// reloadStateError dipanggil saat conditional update tidak mengenai baris:
// transaksi lain sudah mengubah state lebih dulu.
func (s *LoanService) reloadStateError(ctx context.Context, tx repository.Store, v vocab, id uuid.UUID) error {
	cur, err := tx.FindTransaction(ctx, id, false)
	if err != nil {
		return mapStoreErr(err)
	}
	return stateError(cur, v.codeOf(cur.TransactionStatusID))
}

func mapStoreErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

func (s *LoanService) newEvent(t events.Type, loan *model.TransactionModel, statusCode string) events.Event {
	return events.Event{
		ID:            uuid.New(),
		Type:          t,
		TransactionID: loan.TransactionID,
		Code:          loan.TransactionCode,
		BookID:        loan.TransactionBookID,
		MemberID:      loan.TransactionUserID,
		StatusCode:    statusCode,
		PenaltyTotal:  loan.TransactionPenaltyTotal,
		DueDate:       loan.TransactionDueDate,
		ReturnDate:    loan.TransactionReturnDate,
		OccurredAt:    s.now().UTC(),
	}
}

// publish dipanggil setelah commit; kegagalan sink tidak membatalkan operasi.
func (s *LoanService) publish(ctx context.Context, evs []events.Event) {
	for _, e := range evs {
		if err := s.sink.Publish(ctx, e); err != nil {
			s.log.Warn("[EVENT] publish gagal", zap.String("type", string(e.Type)), zap.Error(err))
		}
	}
}

// vocab: status yang dimuat sekali per operasi, diindeks dengan kode.
type vocab struct {
	byCode map[string]statusModel.StatusModel
	byID   map[uuid.UUID]string
}

var requiredStatusCodes = []string{
	constants.StatusRequested,
	constants.StatusBorrowed,
	constants.StatusOverdue,
	constants.StatusReturned,
	constants.StatusLost,
	constants.StatusDamagedMinor,
	constants.StatusDamagedSevere,
	constants.StatusRejected,
}

func loadVocab(ctx context.Context, st repository.Store) (vocab, error) {
	rows, err := st.ListStatuses(ctx)
	if err != nil {
		return vocab{}, err
	}
	v := vocab{
		byCode: make(map[string]statusModel.StatusModel, len(rows)),
		byID:   make(map[uuid.UUID]string, len(rows)),
	}
	for _, r := range rows {
		v.byCode[r.StatusCode] = r
		v.byID[r.StatusID] = r.StatusCode
	}
	for _, code := range requiredStatusCodes {
		if _, ok := v.byCode[code]; !ok {
			return vocab{}, fmt.Errorf("%w: status %q belum di-seed", ErrNotFound, code)
		}
	}
	return v, nil
}

func (v vocab) id(code string) uuid.UUID { return v.byCode[code].StatusID }

func (v vocab) amount(code string) int64 { return v.byCode[code].StatusPenaltyAmount }

func (v vocab) codeOf(id uuid.UUID) string { return v.byID[id] }

func (v vocab) ids(codes ...string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(codes))
	for _, c := range codes {
		out = append(out, v.id(c))
	}
	return out
}
