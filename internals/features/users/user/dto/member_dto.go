package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"simpus_backend/internals/constants"
	"simpus_backend/internals/features/users/user/model"
)

type MembershipRequest struct {
	MembershipStatus string `json:"membership_status" validate:"required,oneof=active suspended expired"`
}

func (r *MembershipRequest) Normalize() {
	r.MembershipStatus = strings.ToLower(strings.TrimSpace(r.MembershipStatus))
}

type RoleRequest struct {
	Role string `json:"role" validate:"required,max=30"`
}

func (r *RoleRequest) Normalize() {
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
}

type MemberResponse struct {
	ID               uuid.UUID `json:"id"`
	UserName         string    `json:"user_name"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	IsActive         bool      `json:"is_active"`
	MembershipStatus string    `json:"membership_status"`

	NIS         *string `json:"nis,omitempty"`
	NISN        *string `json:"nisn,omitempty"`
	Class       *string `json:"class,omitempty"`
	Major       *string `json:"major,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Address     *string `json:"address,omitempty"`

	OutstandingLoans int64 `json:"outstanding_loans"`

	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// FromModel: anggota tanpa baris detail dianggap active.
func FromModel(u *model.UserModel) MemberResponse {
	out := MemberResponse{
		ID:               u.ID,
		UserName:         u.UserName,
		FullName:         u.FullName,
		Email:            u.Email,
		Role:             u.Role,
		IsActive:         u.IsActive,
		MembershipStatus: constants.MembershipActive,
		CreatedAt:        u.CreatedAt,
	}
	if u.DeletedAt.Valid {
		t := u.DeletedAt.Time
		out.DeletedAt = &t
	}
	if d := u.Detail; d != nil {
		out.MembershipStatus = d.UserDetailMembershipStatus
		out.NIS = d.UserDetailNIS
		out.NISN = d.UserDetailNISN
		out.Class = d.UserDetailClass
		out.Major = d.UserDetailMajor
		out.PhoneNumber = d.UserDetailPhoneNumber
		out.Address = d.UserDetailAddress
	}
	return out
}
