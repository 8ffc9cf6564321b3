package models

import "time"

// JoinCode โค้ดสมัครสมาชิกที่ admin ออกให้ ผูก role ที่สมัครได้
type JoinCode struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Code      string     `json:"code" gorm:"uniqueIndex;size:16;not null"`
	RoleScope Role       `json:"roleScope" gorm:"size:20;not null"`
	CenterID  string     `json:"centerId,omitempty" gorm:"size:40"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	MaxUses   *int       `json:"maxUses,omitempty"`
	UsedCount int        `json:"usedCount" gorm:"not null;default:0"`
	CreatedBy uint       `json:"createdBy" gorm:"not null"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Usable โค้ดยังใช้ได้ไหม ณ เวลา now
func (j JoinCode) Usable(now time.Time) bool {
	if j.ExpiresAt != nil && j.ExpiresAt.Before(now) {
		return false
	}
	if j.MaxUses != nil && j.UsedCount >= *j.MaxUses {
		return false
	}
	return true
}
