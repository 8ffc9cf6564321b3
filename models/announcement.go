package models

import "time"

// ประกาศจากศูนย์; AudienceScope ว่าง = เห็นทุก role
type Announcement struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Title         string    `json:"title" gorm:"size:200;not null"`
	Body          string    `json:"body" gorm:"type:text;not null"`
	Pinned        bool      `json:"pinned" gorm:"not null;default:false"`
	AudienceScope []string  `json:"audienceScope" gorm:"serializer:json"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
