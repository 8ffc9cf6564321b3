package handlers

import (
	"gorm.io/gorm"

	"github.com/taejun-song/study-room-system/models"
)

// เงื่อนไขสิทธิ์แยกเป็นฟังก์ชันต่อ {role, action} — ห้ามเขียน if เทียบ role กระจายในแฮนด์เลอร์

// ติวเตอร์ตัดสินใบลาได้เฉพาะนักเรียนที่ตัวเองถูก assign
func mentorCanDecideAbsence(db *gorm.DB, mentorID, studentID uint) bool {
	var n int64
	db.Model(&models.MentorAssignment{}).
		Where("student_id = ? AND mentor_id = ?", studentID, mentorID).
		Count(&n)
	return n > 0
}

// ผู้ปกครองตัดสินได้เฉพาะนักเรียนที่มี ParentLink ถึงกัน
func parentCanDecideAbsence(db *gorm.DB, parentID, studentID uint) bool {
	var n int64
	db.Model(&models.ParentLink{}).
		Where("parent_id = ? AND student_id = ?", parentID, studentID).
		Count(&n)
	return n > 0
}

// ผู้ปกครองดูข้อมูลนักเรียนคนนี้ได้ไหม (ใบลา/ปฏิทิน/สถิติ)
func parentCanViewStudent(db *gorm.DB, parentID, studentID uint) bool {
	return parentCanDecideAbsence(db, parentID, studentID)
}

// ติวเตอร์ดูข้อมูลนักเรียนคนนี้ได้ไหม
func mentorCanViewStudent(db *gorm.DB, mentorID, studentID uint) bool {
	return mentorCanDecideAbsence(db, mentorID, studentID)
}

// resolveStudentScope คืน student id ที่ caller มีสิทธิ์อ่าน ตาม role:
// student=ตัวเอง, parent=ลูกที่ผูกไว้, mentor=นักเรียนที่ถูก assign, admin=ใครก็ได้
// requested=0 หมายถึงไม่ได้ระบุ → ใช้ตัวเอง
func resolveStudentScope(db *gorm.DB, callerID uint, role models.Role, requested uint) (uint, bool) {
	if requested == 0 || requested == callerID {
		return callerID, true
	}
	switch role {
	case models.RoleAdmin:
		return requested, true
	case models.RoleMentor:
		if mentorCanViewStudent(db, callerID, requested) {
			return requested, true
		}
	case models.RoleParent:
		if parentCanViewStudent(db, callerID, requested) {
			return requested, true
		}
	}
	return 0, false
}
