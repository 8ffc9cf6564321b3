package models

import "time"

// การกระทำที่บันทึก audit
const (
	AuditEditAttendance   = "EDIT_ATTENDANCE"
	AuditUpdateUserStatus = "UPDATE_USER_STATUS"
)

// AuditLog ร่องรอยการแก้ข้อมูลโดย admin — append only ไม่ลบไม่แก้
type AuditLog struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	ActorID    uint           `json:"actorId" gorm:"index;not null"`
	Action     string         `json:"action" gorm:"size:40;not null"`
	EntityType string         `json:"entityType" gorm:"size:40;not null"`
	EntityID   string         `json:"entityId" gorm:"size:40;not null"`
	Payload    map[string]any `json:"payload" gorm:"serializer:json"`
	CreatedAt  time.Time      `json:"createdAt"`
}
