package dto

import (
	"strings"

	"simpus_backend/internals/features/library/settings/model"
)

type SettingRequest struct {
	SettingLibraryName string  `json:"setting_library_name" validate:"required,min=3,max=160"`
	SettingAddress     *string `json:"setting_address"`
	SettingPhone       *string `json:"setting_phone" validate:"omitempty,max=20"`
	SettingLimitDay    int     `json:"setting_limit_day" validate:"required,gte=1,lte=365"`
}

func (r *SettingRequest) Normalize() {
	r.SettingLibraryName = strings.TrimSpace(r.SettingLibraryName)
	for _, p := range []**string{&r.SettingAddress, &r.SettingPhone} {
		if *p == nil {
			continue
		}
		v := strings.TrimSpace(**p)
		if v == "" {
			*p = nil
		} else {
			*p = &v
		}
	}
}

func (r *SettingRequest) ApplyToModel(m *model.SettingModel) {
	m.SettingLibraryName = r.SettingLibraryName
	m.SettingAddress = r.SettingAddress
	m.SettingPhone = r.SettingPhone
	m.SettingLimitDay = r.SettingLimitDay
}
