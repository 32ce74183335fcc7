package constants

// Kode status transaksi (kunci mesin, stabil). Nama tampilan ada di tabel statuses.
const (
	StatusRequested     = "requested"
	StatusBorrowed      = "borrowed"
	StatusOverdue       = "overdue"
	StatusReturned      = "returned"
	StatusLost          = "lost"
	StatusDamagedMinor  = "damaged_minor"
	StatusDamagedSevere = "damaged_severe"
	StatusRejected      = "rejected"
)

// Status yang tidak lagi ikut hitungan keterlambatan.
var ClosedStatusCodes = []string{
	StatusRequested,
	StatusReturned,
	StatusLost,
	StatusDamagedMinor,
	StatusDamagedSevere,
	StatusRejected,
}

// Status pinjaman yang masih di tangan anggota (selama return_date NULL).
var OutstandingStatusCodes = []string{
	StatusBorrowed,
	StatusOverdue,
}

const (
	MembershipActive    = "active"
	MembershipSuspended = "suspended"
	MembershipExpired   = "expired"
)

const (
	PenaltyUnpaid = "unpaid"
	PenaltyPaid   = "paid"

	PenaltyMethodCash     = "cash"
	PenaltyMethodMidtrans = "midtrans"
)
