package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound                = errors.New("data tidak ditemukan")
	ErrInvalidStateTransition  = errors.New("perubahan status tidak diizinkan")
	ErrAlreadyReturned         = fmt.Errorf("%w: pinjaman sudah dikembalikan", ErrInvalidStateTransition)
	ErrMembershipInactive      = errors.New("keanggotaan tidak aktif")
	ErrCodeGenerationExhausted = errors.New("gagal membuat kode transaksi unik")
	ErrValidation              = errors.New("input tidak valid")
	ErrForbidden               = errors.New("tidak punya akses")
	ErrNoCopyAvailable         = errors.New("stok buku habis")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
