// Package access memetakan role pengguna ke kapabilitas dan memutuskan aksi apa yang boleh dijalankan.
// Satu Checker dipakai bersama oleh engine transaksi dan guard HTTP.
package access

import "simpus_backend/internals/constants"

// Capability berurutan: admin ⊃ staff ⊃ member.
type Capability int

const (
	CapNone Capability = iota
	CapMember
	CapStaff
	CapAdmin
)

func (c Capability) String() string {
	switch c {
	case CapMember:
		return "member"
	case CapStaff:
		return "staff"
	case CapAdmin:
		return "admin"
	default:
		return "none"
	}
}

type Action string

const (
	// member
	ActionCatalogView   Action = "catalog.view"
	ActionLoanRequest   Action = "loan.request"
	ActionLoanViewOwn   Action = "loan.view_own"
	ActionPenaltyPayOwn Action = "penalty.pay_own"

	// staff
	ActionLoanCreate      Action = "loan.create"
	ActionLoanReturn      Action = "loan.return"
	ActionLoanMarkLost    Action = "loan.mark_lost"
	ActionLoanMarkDamaged Action = "loan.mark_damaged"
	ActionLoanBulkReturn  Action = "loan.bulk_return"
	ActionLoanApprove     Action = "loan.approve"
	ActionLoanReject      Action = "loan.reject"
	ActionLoanSweep       Action = "loan.sweep"
	ActionLoanViewAll     Action = "loan.view_all"
	ActionBookWrite       Action = "book.write"
	ActionCategoryWrite   Action = "category.write"
	ActionPenaltySettle   Action = "penalty.settle"
	ActionMemberView      Action = "member.view"

	// admin
	ActionRecordDelete  Action = "record.delete"
	ActionRecordRestore Action = "record.restore"
	ActionRoleManage    Action = "role.manage"
	ActionStatusManage  Action = "status.manage"
	ActionSettingManage Action = "setting.manage"
	ActionMemberManage  Action = "member.manage"
)

// Checker memutuskan apakah role boleh menjalankan action.
type Checker interface {
	Allowed(role string, action Action) bool
}

// RoleTable adalah Checker berbasis tabel role → kapabilitas → aksi.
type RoleTable struct {
	roles   map[string]Capability
	actions map[Action]Capability
}

var defaultRoles = map[string]Capability{
	constants.RoleSuperAdmin:        CapAdmin,
	constants.RoleKetuaPerpustakaan: CapAdmin,
	constants.RolePetugas:           CapStaff,
	constants.RoleSiswa:             CapMember,
}

var defaultActions = map[Action]Capability{
	ActionCatalogView:   CapMember,
	ActionLoanRequest:   CapMember,
	ActionLoanViewOwn:   CapMember,
	ActionPenaltyPayOwn: CapMember,

	ActionLoanCreate:      CapStaff,
	ActionLoanReturn:      CapStaff,
	ActionLoanMarkLost:    CapStaff,
	ActionLoanMarkDamaged: CapStaff,
	ActionLoanBulkReturn:  CapStaff,
	ActionLoanApprove:     CapStaff,
	ActionLoanReject:      CapStaff,
	ActionLoanSweep:       CapStaff,
	ActionLoanViewAll:     CapStaff,
	ActionBookWrite:       CapStaff,
	ActionCategoryWrite:   CapStaff,
	ActionPenaltySettle:   CapStaff,
	ActionMemberView:      CapStaff,

	ActionRecordDelete:  CapAdmin,
	ActionRecordRestore: CapAdmin,
	ActionRoleManage:    CapAdmin,
	ActionStatusManage:  CapAdmin,
	ActionSettingManage: CapAdmin,
	ActionMemberManage:  CapAdmin,
}

func NewRoleTable() *RoleTable {
	t := &RoleTable{
		roles:   make(map[string]Capability, len(defaultRoles)),
		actions: make(map[Action]Capability, len(defaultActions)),
	}
	for r, c := range defaultRoles {
		t.roles[r] = c
	}
	for a, c := range defaultActions {
		t.actions[a] = c
	}
	return t
}

// CapabilityOf mengembalikan CapNone untuk role yang tidak dikenal.
func (t *RoleTable) CapabilityOf(role string) Capability {
	return t.roles[role]
}

// Allowed: aksi yang tidak terdaftar selalu ditolak.
func (t *RoleTable) Allowed(role string, action Action) bool {
	need, ok := t.actions[action]
	if !ok {
		return false
	}
	have := t.CapabilityOf(role)
	return have != CapNone && have >= need
}
