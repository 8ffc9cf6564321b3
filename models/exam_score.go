package models

import "time"

// คะแนนสอบที่นักเรียนรายงานเอง ใช้จัดอันดับ
type ExamScore struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	StudentID     uint           `json:"studentId" gorm:"index;not null"`
	ExamName      string         `json:"examName" gorm:"size:120;not null;index"`
	ExamDate      string         `json:"examDate" gorm:"size:10;not null"` // YYYY-MM-DD
	SubjectScores map[string]int `json:"subjectScores" gorm:"serializer:json"`
	Total         int            `json:"total" gorm:"not null"`
	ProofURL      string         `json:"proofUrl,omitempty" gorm:"type:text"`
	CreatedAt     time.Time      `json:"createdAt"`
}
