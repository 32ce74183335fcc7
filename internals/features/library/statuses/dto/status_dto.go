package dto

import (
	"strings"

	"github.com/google/uuid"

	"simpus_backend/internals/features/library/statuses/model"
)

type StatusUpdateRequest struct {
	StatusName          *string `json:"status_name" validate:"omitempty,min=2,max=80"`
	StatusPenaltyAmount *int64  `json:"status_penalty_amount" validate:"omitempty,gte=0"`
}

func (r *StatusUpdateRequest) Normalize() {
	if r.StatusName != nil {
		v := strings.TrimSpace(*r.StatusName)
		r.StatusName = &v
	}
}

func (r *StatusUpdateRequest) Empty() bool {
	return r.StatusName == nil && r.StatusPenaltyAmount == nil
}

type StatusResponse struct {
	StatusID            uuid.UUID `json:"status_id"`
	StatusCode          string    `json:"status_code"`
	StatusName          string    `json:"status_name"`
	StatusPenaltyAmount int64     `json:"status_penalty_amount"`
}

func ToStatusResponse(m *model.StatusModel) StatusResponse {
	return StatusResponse{
		StatusID:            m.StatusID,
		StatusCode:          m.StatusCode,
		StatusName:          m.StatusName,
		StatusPenaltyAmount: m.StatusPenaltyAmount,
	}
}
