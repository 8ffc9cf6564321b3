package models

import "time"

// สถานะการจองถามตอบ: REQUESTED → ACCEPTED → IN_PROGRESS → COMPLETED, หรือ REQUESTED → CANCELLED
type BookingStatus string

const (
	BookingRequested  BookingStatus = "REQUESTED"
	BookingAccepted   BookingStatus = "ACCEPTED"
	BookingInProgress BookingStatus = "IN_PROGRESS"
	BookingCompleted  BookingStatus = "COMPLETED"
	BookingCancelled  BookingStatus = "CANCELLED"
)

// ActiveBookingStatuses สถานะที่ยังกินช่วงเวลาของติวเตอร์อยู่ — ต้องเช็คชนกันเสมอ
func ActiveBookingStatuses() []BookingStatus {
	return []BookingStatus{BookingRequested, BookingAccepted, BookingInProgress}
}

type QABooking struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	StudentID uint          `json:"studentId" gorm:"index;not null"`
	MentorID  uint          `json:"mentorId" gorm:"index;not null"`
	Subject   string        `json:"subject" gorm:"size:60;not null"`
	Chapter   string        `json:"chapter,omitempty" gorm:"size:120"`
	Summary   string        `json:"summary" gorm:"type:text;not null"`
	Images    []string      `json:"images" gorm:"serializer:json"`
	SlotStart time.Time     `json:"slotStart" gorm:"not null"`
	SlotEnd   time.Time     `json:"slotEnd" gorm:"not null"`
	Status    BookingStatus `json:"status" gorm:"size:15;not null;default:REQUESTED;index"`

	// เติมเฉพาะตอน COMPLETED
	AnswerText  string   `json:"answerText,omitempty" gorm:"type:text"`
	AnswerFiles []string `json:"answerFiles" gorm:"serializer:json"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SlotsOverlap เช็คช่วงเวลาแบบครึ่งเปิด [start, end) สองช่วงทับกันหรือไม่
func SlotsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
