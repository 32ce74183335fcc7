package access

import (
	"testing"

	"github.com/stretchr/testify/require"

	"simpus_backend/internals/constants"
)

func TestCapabilityOfRoles(t *testing.T) {
	rt := NewRoleTable()
	require.Equal(t, CapAdmin, rt.CapabilityOf(constants.RoleSuperAdmin))
	require.Equal(t, CapAdmin, rt.CapabilityOf(constants.RoleKetuaPerpustakaan))
	require.Equal(t, CapStaff, rt.CapabilityOf(constants.RolePetugas))
	require.Equal(t, CapMember, rt.CapabilityOf(constants.RoleSiswa))
	require.Equal(t, CapNone, rt.CapabilityOf("tamu"))
}

func TestAllowedFollowsCapabilityOrder(t *testing.T) {
	rt := NewRoleTable()

	require.True(t, rt.Allowed(constants.RolePetugas, ActionLoanCreate))
	require.True(t, rt.Allowed(constants.RoleSuperAdmin, ActionLoanCreate))
	require.False(t, rt.Allowed(constants.RoleSiswa, ActionLoanCreate))

	require.True(t, rt.Allowed(constants.RoleKetuaPerpustakaan, ActionRecordDelete))
	require.False(t, rt.Allowed(constants.RolePetugas, ActionRecordDelete))
	require.False(t, rt.Allowed(constants.RolePetugas, ActionRoleManage))

	require.True(t, rt.Allowed(constants.RoleSiswa, ActionLoanRequest))
	require.True(t, rt.Allowed(constants.RolePetugas, ActionLoanRequest))
}

func TestUnknownRoleOrActionDenied(t *testing.T) {
	rt := NewRoleTable()
	require.False(t, rt.Allowed("", ActionCatalogView))
	require.False(t, rt.Allowed("tamu", ActionCatalogView))
	require.False(t, rt.Allowed(constants.RoleSuperAdmin, Action("book.burn")))
}

func TestEveryActionHasMinimumCapability(t *testing.T) {
	rt := NewRoleTable()
	for a := range defaultActions {
		c, ok := rt.actions[a]
		require.True(t, ok, a)
		require.NotEqual(t, CapNone, c, a)
		require.True(t, rt.Allowed(constants.RoleSuperAdmin, a), a)
	}
}
