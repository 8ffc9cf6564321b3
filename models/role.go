package models

import "strings"

// Role เป็น enum ปิด — ห้ามเทียบ string ตรง ๆ ในแฮนด์เลอร์ ให้ใช้ค่าคงที่ชุดนี้เท่านั้น
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleStudent Role = "STUDENT"
	RoleParent  Role = "PARENT"
	RoleMentor  Role = "MENTOR"
)

// ParseRole แปลง string จาก JWT/payload เป็น Role; ok=false ถ้าไม่รู้จัก
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleStudent:
		return RoleStudent, true
	case RoleParent:
		return RoleParent, true
	case RoleMentor:
		return RoleMentor, true
	}
	return "", false
}

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}
