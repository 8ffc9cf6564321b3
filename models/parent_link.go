package models

import "time"

// ParentLink ผูกผู้ปกครองกับนักเรียน (many-to-many) — ใช้เป็นเงื่อนไขสิทธิ์อย่างเดียว
type ParentLink struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ParentID  uint      `json:"parentId" gorm:"index;not null;uniqueIndex:idx_parent_student"`
	StudentID uint      `json:"studentId" gorm:"index;not null;uniqueIndex:idx_parent_student"`
	CreatedAt time.Time `json:"createdAt"`
}

// MentorAssignment นักเรียน 1 คนมีติวเตอร์ประจำได้มากสุด 1 คน
type MentorAssignment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	StudentID uint      `json:"studentId" gorm:"uniqueIndex;not null"`
	MentorID  uint      `json:"mentorId" gorm:"index;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
