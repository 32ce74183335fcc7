package configs

import "time"

// LibraryPolicy mengumpulkan aturan sirkulasi yang bisa diatur lewat ENV.
type LibraryPolicy struct {
	// Lama pinjam default; settings.setting_limit_day mengalahkan nilai ini.
	LoanPeriodDays int
	// true: stok buku berkurang saat dipinjam dan pinjam ditolak kalau stok habis.
	EnforceCopyCount bool
	// Jumlah kandidat kode acak sebelum fallback UUID.
	MaxCodeAttempts int

	OverdueSweepInterval time.Duration
	EventBuffer          int
	EventsListen         bool
	Timezone             string
}

func DefaultLibraryPolicy() LibraryPolicy {
	return LibraryPolicy{
		LoanPeriodDays:       7,
		EnforceCopyCount:     true,
		MaxCodeAttempts:      5,
		OverdueSweepInterval: time.Hour,
		EventBuffer:          256,
		EventsListen:         false,
		Timezone:             "Asia/Jakarta",
	}
}

func LoadLibraryPolicy() LibraryPolicy {
	p := DefaultLibraryPolicy()
	p.LoanPeriodDays = GetEnvInt("LOAN_PERIOD_DAYS", p.LoanPeriodDays)
	p.EnforceCopyCount = GetEnvBool("LOAN_ENFORCE_COPY_COUNT", p.EnforceCopyCount)
	p.MaxCodeAttempts = GetEnvInt("LOAN_CODE_MAX_ATTEMPTS", p.MaxCodeAttempts)
	p.OverdueSweepInterval = GetEnvDuration("OVERDUE_SWEEP_INTERVAL", p.OverdueSweepInterval)
	p.EventBuffer = GetEnvInt("LOAN_EVENTS_BUFFER", p.EventBuffer)
	p.EventsListen = GetEnvBool("LOAN_EVENTS_LISTEN", p.EventsListen)
	p.Timezone = GetEnv("APP_TIMEZONE", p.Timezone)

	if p.LoanPeriodDays <= 0 {
		p.LoanPeriodDays = 7
	}
	if p.MaxCodeAttempts <= 0 {
		p.MaxCodeAttempts = 5
	}
	if p.EventBuffer <= 0 {
		p.EventBuffer = 256
	}
	return p
}

// Location mengembalikan zona waktu perpustakaan; fallback UTC.
func (p LibraryPolicy) Location() *time.Location {
	if loc, err := time.LoadLocation(p.Timezone); err == nil {
		return loc
	}
	return time.UTC
}
