package models

import "time"

// ที่มาของการเช็คอิน
const (
	SourceMobile = "MOBILE"
	SourceKiosk  = "KIOSK"
	SourceAdmin  = "ADMIN"
)

// เซสชันเข้า-ออกห้องอ่านหนังสือ; EndAt == nil แปลว่ายังอยู่ในห้อง
type AttendanceSession struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	StudentID uint       `json:"studentId" gorm:"index;not null"`
	StartAt   time.Time  `json:"startAt" gorm:"not null;index"`
	EndAt     *time.Time `json:"endAt,omitempty"`
	Source    string     `json:"source" gorm:"size:10;not null;default:MOBILE"`
	Notes     string     `json:"notes,omitempty" gorm:"type:text"`
	EditedBy  *uint      `json:"editedBy,omitempty"` // admin ที่แก้เซสชันย้อนหลัง

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DurationMinutes นาทีที่นั่งจริง; 0 ถ้ายังไม่ checkout
func (s AttendanceSession) DurationMinutes() int {
	if s.EndAt == nil {
		return 0
	}
	return int(s.EndAt.Sub(s.StartAt).Minutes())
}

// StudyLog บันทึกเวลาจับเวลาอ่านเอง (Pomodoro)
type StudyLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	StudentID uint      `json:"studentId" gorm:"index;not null"`
	Subject   string    `json:"subject" gorm:"size:60;not null"`
	Chapter   string    `json:"chapter,omitempty" gorm:"size:120"`
	Minutes   int       `json:"minutes" gorm:"not null"`
	Source    string    `json:"source" gorm:"size:15;not null;default:POMODORO"`
	LoggedAt  time.Time `json:"loggedAt" gorm:"autoCreateTime"`
}
