package models

import "time"

// สถานะบัญชีผู้ใช้
const (
	UserActive    = "ACTIVE"
	UserInactive  = "INACTIVE"
	UserSuspended = "SUSPENDED"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:120;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:120;not null"`
	Phone        string    `json:"phone" gorm:"size:20"`
	PasswordHash string    `json:"-" gorm:"not null"` // bcrypt hash
	Role         Role      `json:"role" gorm:"size:20;not null"`
	Status       string    `json:"status" gorm:"size:20;not null;default:ACTIVE"` // ACTIVE|INACTIVE|SUSPENDED
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// โปรไฟล์เพิ่มเติมของติวเตอร์ (สร้างตอน signup role=MENTOR)
type MentorProfile struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"userId" gorm:"uniqueIndex;not null"`
	University string    `json:"university" gorm:"size:120"`
	Major      string    `json:"major" gorm:"size:120"`
	Bio        string    `json:"bio" gorm:"type:text"`
	Subjects   []string  `json:"subjects" gorm:"serializer:json"`
	RatingAvg  float64   `json:"ratingAvg" gorm:"default:0"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
