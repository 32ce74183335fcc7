package constants

import "fmt"

const (
	RoleSuperAdmin        = "super_admin"
	RoleKetuaPerpustakaan = "ketua_perpustakaan"
	RolePetugas           = "petugas"
	RoleSiswa             = "siswa"
)

// Template pesan error role
const (
	ErrOnlyStaffCanAccess  = "❌ Hanya petugas atau admin perpustakaan yang boleh mengakses fitur %s."
	ErrOnlyAdminsCanAccess = "❌ Hanya admin perpustakaan yang boleh mengakses fitur %s."
	ErrOnlyMemberCanAccess = "❌ Hanya anggota terdaftar yang boleh mengakses fitur %s."
)

// Fungsi helper untuk menghasilkan pesan error dinamis
func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorMember(feature string) string {
	return fmt.Sprintf(ErrOnlyMemberCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleSuperAdmin,
		RoleKetuaPerpustakaan,
		RolePetugas,
		RoleSiswa,
	}

	StaffAndAbove = []string{
		RoleSuperAdmin,
		RoleKetuaPerpustakaan,
		RolePetugas,
	}

	AdminAndAbove = []string{
		RoleSuperAdmin,
		RoleKetuaPerpustakaan,
	}
)

func IsKnownRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
