package models

import "time"

// หมวดเรื่องร้องเรียน/สอบถาม
const (
	MsgFacility = "FACILITY"
	MsgPolicy   = "POLICY"
	MsgPayment  = "PAYMENT"
	MsgOther    = "OTHER"
)

// MessageThread ห้องคุยกับศูนย์ — ผู้ใช้ 1 คนมีได้ 1 เธรด
type MessageThread struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

type Message struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ThreadID    uint      `json:"threadId" gorm:"index;not null"`
	SenderID    uint      `json:"senderId" gorm:"not null"`
	Text        string    `json:"text" gorm:"type:text;not null"`
	Attachments []string  `json:"attachments" gorm:"serializer:json"`
	Category    string    `json:"category,omitempty" gorm:"size:15"`
	CreatedAt   time.Time `json:"createdAt"`
}
