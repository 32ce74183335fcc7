package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"simpus_backend/internals/constants"
)

// UserModel merepresentasikan tabel users (akun login: anggota maupun petugas).
type UserModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserName string    `gorm:"size:50;not null;uniqueIndex" json:"user_name"`
	FullName string    `gorm:"size:120" json:"full_name"`
	Email    string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	GoogleID *string   `gorm:"size:255;uniqueIndex" json:"google_id,omitempty"`
	Role     string    `gorm:"type:varchar(30);not null;default:'siswa'" json:"role"`
	IsActive bool      `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Detail *UserDetailModel `gorm:"foreignKey:UserDetailUserID;references:ID" json:"detail,omitempty"`
}

// TableName memastikan nama tabel sesuai dengan skema database
func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = constants.RoleSiswa
	}
	return nil
}

// UserDetailModel menyimpan profil keanggotaan (1:1 dengan users).
type UserDetailModel struct {
	UserDetailID     uuid.UUID `gorm:"type:uuid;primaryKey;column:user_detail_id" json:"user_detail_id"`
	UserDetailUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:user_detail_user_id" json:"user_detail_user_id"`

	UserDetailNIK         *string    `gorm:"size:32;column:user_detail_nik" json:"user_detail_nik,omitempty"`
	UserDetailNIS         *string    `gorm:"size:32;column:user_detail_nis" json:"user_detail_nis,omitempty"`
	UserDetailNISN        *string    `gorm:"size:32;column:user_detail_nisn" json:"user_detail_nisn,omitempty"`
	UserDetailClass       *string    `gorm:"size:40;column:user_detail_class" json:"user_detail_class,omitempty"`
	UserDetailMajor       *string    `gorm:"size:80;column:user_detail_major" json:"user_detail_major,omitempty"`
	UserDetailSemester    *int       `gorm:"column:user_detail_semester" json:"user_detail_semester,omitempty"`
	UserDetailPhoneNumber *string    `gorm:"size:20;column:user_detail_phone_number" json:"user_detail_phone_number,omitempty"`
	UserDetailAddress     *string    `gorm:"type:text;column:user_detail_address" json:"user_detail_address,omitempty"`
	UserDetailBirthPlace  *string    `gorm:"size:80;column:user_detail_birth_place" json:"user_detail_birth_place,omitempty"`
	UserDetailBirthDate   *time.Time `gorm:"type:date;column:user_detail_birth_date" json:"user_detail_birth_date,omitempty"`
	UserDetailGender      *string    `gorm:"size:10;column:user_detail_gender" json:"user_detail_gender,omitempty"`
	UserDetailJoinDate    *time.Time `gorm:"type:date;column:user_detail_join_date" json:"user_detail_join_date,omitempty"`

	UserDetailMembershipStatus string `gorm:"type:varchar(16);not null;default:'active';column:user_detail_membership_status" json:"user_detail_membership_status"`

	UserDetailCreatedAt time.Time `gorm:"autoCreateTime;column:user_detail_created_at" json:"user_detail_created_at"`
	UserDetailUpdatedAt time.Time `gorm:"autoUpdateTime;column:user_detail_updated_at" json:"user_detail_updated_at"`
}

func (UserDetailModel) TableName() string { return "user_details" }

func (d *UserDetailModel) BeforeCreate(tx *gorm.DB) error {
	if d.UserDetailID == uuid.Nil {
		d.UserDetailID = uuid.New()
	}
	if d.UserDetailMembershipStatus == "" {
		d.UserDetailMembershipStatus = constants.MembershipActive
	}
	return nil
}

func IsValidMembership(s string) bool {
	switch s {
	case constants.MembershipActive, constants.MembershipSuspended, constants.MembershipExpired:
		return true
	}
	return false
}
