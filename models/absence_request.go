package models

import "time"

// ผลตัดสินรายฝั่ง (ติวเตอร์/ผู้ปกครอง) — PENDING → APPROVED|REJECTED แล้วจบ ไม่ย้อนกลับ
type Decision string

const (
	DecisionPending  Decision = "PENDING"
	DecisionApproved Decision = "APPROVED"
	DecisionRejected Decision = "REJECTED"
)

// สถานะรวมของคำขอลา
type AbsenceStatus string

const (
	AbsencePending  AbsenceStatus = "PENDING"
	AbsencePartial  AbsenceStatus = "PARTIAL"
	AbsenceApproved AbsenceStatus = "APPROVED"
	AbsenceRejected AbsenceStatus = "REJECTED"
)

// ประเภทการลา
type AbsenceType string

const (
	AbsenceAbsent     AbsenceType = "ABSENT"
	AbsenceLate       AbsenceType = "LATE"
	AbsenceEarlyLeave AbsenceType = "EARLY_LEAVE"
	AbsenceOffsite    AbsenceType = "OFFSITE"
)

func (t AbsenceType) Valid() bool {
	switch t {
	case AbsenceAbsent, AbsenceLate, AbsenceEarlyLeave, AbsenceOffsite:
		return true
	}
	return false
}

type AbsenceRequest struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	StudentID   uint        `json:"studentId" gorm:"index;not null"`
	Date        string      `json:"date" gorm:"size:10;not null"` // YYYY-MM-DD
	Type        AbsenceType `json:"type" gorm:"size:20;not null"`
	StartAt     *time.Time  `json:"startAt,omitempty"`
	EndAt       *time.Time  `json:"endAt,omitempty"`
	ReasonText  string      `json:"reasonText" gorm:"type:text;not null"`
	EvidenceURL string      `json:"evidenceUrl,omitempty" gorm:"type:text"`

	MentorDecision Decision      `json:"mentorDecision" gorm:"size:10;not null;default:PENDING"`
	ParentDecision Decision      `json:"parentDecision" gorm:"size:10;not null;default:PENDING"`
	Status         AbsenceStatus `json:"status" gorm:"size:10;not null;default:PENDING;index"`
	MentorComment  string        `json:"mentorComment,omitempty" gorm:"type:text"`
	ParentComment  string        `json:"parentComment,omitempty" gorm:"type:text"`
	DecidedAt      *time.Time    `json:"decidedAt,omitempty"` // set เฉพาะตอนสถานะรวมเป็น APPROVED/REJECTED

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Terminal คำขอที่ตัดสินแล้ว ห้ามตัดสินซ้ำ
func (s AbsenceStatus) Terminal() bool {
	return s == AbsenceApproved || s == AbsenceRejected
}

// ResolveAbsenceStatus คิดสถานะรวมจากผลตัดสินสองฝั่ง (ไม่ขึ้นกับลำดับ):
//
//	REJECTED ฝั่งใดฝั่งหนึ่ง          → REJECTED (ตัดจบทันที)
//	APPROVED + APPROVED              → APPROVED
//	APPROVED + PENDING (ฝั่งใดก็ได้) → PARTIAL
//	PENDING + PENDING                → PENDING
func ResolveAbsenceStatus(mentor, parent Decision) AbsenceStatus {
	switch {
	case mentor == DecisionRejected || parent == DecisionRejected:
		return AbsenceRejected
	case mentor == DecisionApproved && parent == DecisionApproved:
		return AbsenceApproved
	case mentor == DecisionApproved || parent == DecisionApproved:
		return AbsencePartial
	default:
		return AbsencePending
	}
}
