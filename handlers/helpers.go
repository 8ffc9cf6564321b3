package handlers

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/taejun-song/study-room-system/models"
)

var validate = validator.New()

// sentinel สำหรับส่งผลจากใน transaction ออกมา map เป็น HTTP response
var (
	errNotFound  = errors.New("not found")
	errForbidden = errors.New("forbidden")
	errConflict  = errors.New("conflict")
)

// jsonError ตอบ error รูปแบบเดียวกันทุกที่: โค้ดเครื่องอ่าน + ข้อความคนอ่าน
func jsonError(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, map[string]any{"error": code, "message": msg})
}

// อ่าน user_id/role ที่ RequireAuth แนบไว้
func currentUser(c echo.Context) (uint, models.Role) {
	uid, _ := c.Get("user_id").(uint)
	role, _ := c.Get("role").(models.Role)
	return uid, role
}

// แปลง string -> int; ถ้าแปลงไม่ได้ให้คืนค่าเริ่มต้น
func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// แปลง path/query param เป็น uint id
func parseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
