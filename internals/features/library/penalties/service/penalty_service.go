package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"simpus_backend/internals/constants"
	"simpus_backend/internals/features/library/penalties/model"
	txModel "simpus_backend/internals/features/library/transactions/model"
	userModel "simpus_backend/internals/features/users/user/model"
)

var (
	ErrPenaltyNotFound  = errors.New("denda tidak ditemukan")
	ErrAlreadyPaid      = errors.New("denda sudah lunas")
	ErrGatewayDisabled  = errors.New("pembayaran online belum dikonfigurasi")
	ErrInvalidSignature = errors.New("signature tidak valid")
	ErrAmountMismatch   = errors.New("nominal pembayaran tidak sesuai")
)

type PenaltyService struct {
	DB      *gorm.DB
	Gateway Gateway
	Log     *zap.Logger
	Now     func() time.Time
}

// NewPenaltyService: gateway nil berarti pembayaran online nonaktif (hanya tunai).
func NewPenaltyService(db *gorm.DB, gateway Gateway, log *zap.Logger) *PenaltyService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PenaltyService{DB: db, Gateway: gateway, Log: log, Now: time.Now}
}

/* =========================
   Query
========================= */

type ListFilter struct {
	UserID *uuid.UUID
	Status string
	Offset int
	Limit  int
}

// Row: denda + kode transaksi + judul buku + nama anggota.
type Row struct {
	model.PenaltyModel
	TransactionCode string `gorm:"column:transaction_code"`
	BookTitle       string `gorm:"column:book_title"`
	MemberName      string `gorm:"column:member_name"`
}

func (s *PenaltyService) List(ctx context.Context, f ListFilter) ([]Row, int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.PenaltyModel{}).
		Joins("JOIN transactions t ON t.transaction_id = penalties.penalty_transaction_id").
		Joins("LEFT JOIN books b ON b.book_id = t.transaction_book_id").
		Joins("LEFT JOIN users u ON u.id = penalties.penalty_user_id")
	if f.UserID != nil {
		q = q.Where("penalties.penalty_user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		q = q.Where("penalties.penalty_status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count penalties: %w", err)
	}
	var rows []Row
	q = q.Select(`penalties.*, t.transaction_code, b.book_title AS book_title, u.full_name AS member_name`).
		Order("penalties.penalty_created_at DESC")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list penalties: %w", err)
	}
	return rows, total, nil
}

/* =========================
   Tunai (petugas)
========================= */

// SettleCash menandai lunas di meja sirkulasi.
func (s *PenaltyService) SettleCash(ctx context.Context, staffID, id uuid.UUID) (*model.PenaltyModel, error) {
	var out model.PenaltyModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&out, "penalty_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPenaltyNotFound
			}
			return err
		}
		if out.PenaltyStatus == constants.PenaltyPaid {
			return ErrAlreadyPaid
		}
		return s.markPaid(tx, &out, constants.PenaltyMethodCash, &staffID)
	})
	if err != nil {
		return nil, err
	}
	s.Log.Info("[PENALTY] lunas tunai",
		zap.String("penalty_id", out.PenaltyID.String()),
		zap.Int64("amount", out.PenaltyAmount),
	)
	return &out, nil
}

func (s *PenaltyService) markPaid(tx *gorm.DB, p *model.PenaltyModel, method string, by *uuid.UUID) error {
	now := s.Now()
	res := tx.Model(&model.PenaltyModel{}).
		Where("penalty_id = ? AND penalty_status = ?", p.PenaltyID, constants.PenaltyUnpaid).
		Updates(map[string]any{
			"penalty_status":     constants.PenaltyPaid,
			"penalty_method":     method,
			"penalty_paid_at":    now,
			"penalty_settled_by": by,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyPaid
	}
	p.PenaltyStatus = constants.PenaltyPaid
	p.PenaltyMethod = &method
	p.PenaltyPaidAt = &now
	p.PenaltySettledBy = by
	return nil
}

/* =========================
   Online (anggota)
========================= */

type PaymentSession struct {
	PenaltyID uuid.UUID `json:"penalty_id"`
	OrderID   string    `json:"order_id"`
	Amount    int64     `json:"amount"`
	SnapResult
}

// StartPayment membuat order Midtrans untuk denda milik userID.
// Denda milik anggota lain diperlakukan sebagai tidak ditemukan.
func (s *PenaltyService) StartPayment(ctx context.Context, userID, id uuid.UUID) (*PaymentSession, error) {
	if s.Gateway == nil {
		return nil, ErrGatewayDisabled
	}

	var (
		p    model.PenaltyModel
		user userModel.UserModel
		loan txModel.TransactionModel
	)
	db := s.DB.WithContext(ctx)
	if err := db.First(&p, "penalty_id = ? AND penalty_user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPenaltyNotFound
		}
		return nil, err
	}
	if p.PenaltyStatus == constants.PenaltyPaid {
		return nil, ErrAlreadyPaid
	}
	if err := db.Preload("Detail").First(&user, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if err := db.Unscoped().First(&loan, "transaction_id = ?", p.PenaltyTransactionID).Error; err != nil {
		return nil, fmt.Errorf("load transaction: %w", err)
	}

	// order id baru tiap percobaan; Midtrans menolak order id yang sama dipakai ulang
	orderID := fmt.Sprintf("PNL-%s-%d-%s",
		strings.ToUpper(p.PenaltyID.String()[:8]), s.Now().Unix(), strings.ToUpper(uuid.NewString()[:4]))
	cust := Customer{FullName: user.FullName, Email: user.Email}
	if cust.FullName == "" {
		cust.FullName = user.UserName
	}
	if user.Detail != nil && user.Detail.UserDetailPhoneNumber != nil {
		cust.Phone = *user.Detail.UserDetailPhoneNumber
	}

	res, err := s.Gateway.CreatePayment(orderID, p.PenaltyAmount, "Denda "+loan.TransactionCode, cust)
	if err != nil {
		return nil, fmt.Errorf("midtrans: %w", err)
	}
	// sesi lama tidak dibatalkan: bila anggota membayar lewat sesi itu, webhook-nya tetap dicocokkan
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model.PenaltyPaymentModel{
			PaymentPenaltyID: p.PenaltyID,
			PaymentOrderID:   orderID,
			PaymentAmount:    p.PenaltyAmount,
			PaymentStatus:    model.PaymentPending,
			PaymentSnapToken: res.Token,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&p).Update("penalty_order_id", orderID).Error
	})
	if err != nil {
		return nil, fmt.Errorf("simpan order id: %w", err)
	}

	s.Log.Info("[PENALTY] sesi pembayaran dibuat", zap.String("order_id", orderID))
	return &PaymentSession{PenaltyID: p.PenaltyID, OrderID: orderID, Amount: p.PenaltyAmount, SnapResult: res}, nil
}

// HandleNotification memproses webhook Midtrans. Mengembalikan (nil, nil)
// bila notifikasi valid tapi bukan status lunas.
func (s *PenaltyService) HandleNotification(ctx context.Context, n Notification) (*model.PenaltyModel, error) {
	if s.Gateway == nil {
		return nil, ErrGatewayDisabled
	}
	if !n.Verify(s.Gateway.ServerKey()) {
		return nil, ErrInvalidSignature
	}
	if !n.Paid() {
		s.Log.Info("[PENALTY] notifikasi diabaikan",
			zap.String("order_id", n.OrderID),
			zap.String("transaction_status", n.TransactionStatus),
		)
		return nil, nil
	}

	var out model.PenaltyModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var attempt model.PenaltyPaymentModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&attempt, "payment_order_id = ?", n.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPenaltyNotFound
			}
			return err
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&out, "penalty_id = ?", attempt.PaymentPenaltyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPenaltyNotFound
			}
			return err
		}
		gross, err := strconv.ParseFloat(n.GrossAmount, 64)
		if err != nil || int64(gross+0.5) != attempt.PaymentAmount {
			return ErrAmountMismatch
		}
		if attempt.PaymentStatus == model.PaymentSettled {
			return nil
		}
		status := model.PaymentSettled
		if out.PenaltyStatus == constants.PenaltyPaid {
			// sudah lunas lewat sesi lain atau tunai; dicatat agar bisa di-refund manual
			status = model.PaymentDuplicate
			s.Log.Warn("[PENALTY] pembayaran ganda",
				zap.String("order_id", n.OrderID),
				zap.String("penalty_id", out.PenaltyID.String()),
			)
		}
		if err := tx.Model(&attempt).Update("payment_status", status).Error; err != nil {
			return err
		}
		if status == model.PaymentDuplicate {
			return nil
		}
		if attempt.PaymentAmount != out.PenaltyAmount {
			return ErrAmountMismatch
		}
		return s.markPaid(tx, &out, constants.PenaltyMethodMidtrans, nil)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
