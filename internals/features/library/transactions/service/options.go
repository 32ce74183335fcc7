package service

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"simpus_backend/internals/configs"
)

// Policy aturan sirkulasi yang dipakai engine.
type Policy struct {
	LoanPeriodDays   int
	EnforceCopyCount bool
	MaxCodeAttempts  int
}

func PolicyFromConfig(p configs.LibraryPolicy) Policy {
	return Policy{
		LoanPeriodDays:   p.LoanPeriodDays,
		EnforceCopyCount: p.EnforceCopyCount,
		MaxCodeAttempts:  p.MaxCodeAttempts,
	}
}

func defaultPolicy() Policy {
	return PolicyFromConfig(configs.DefaultLibraryPolicy())
}

type Option func(*LoanService)

func WithPolicy(p Policy) Option {
	return func(s *LoanService) {
		if p.LoanPeriodDays <= 0 {
			p.LoanPeriodDays = 7
		}
		if p.MaxCodeAttempts <= 0 {
			p.MaxCodeAttempts = 5
		}
		s.policy = p
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *LoanService) { s.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(s *LoanService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *LoanService) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRandom mengganti sumber angka acak kode transaksi; intN(n) harus di [0, n).
func WithRandom(intN func(n int) int) Option {
	return func(s *LoanService) { s.intN = intN }
}

func defaultIntN(n int) int { return rand.Intn(n) }
