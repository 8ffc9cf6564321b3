package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/taejun-song/study-room-system/database"
	"github.com/taejun-song/study-room-system/models"
)

// เปิด sqlite in-memory แยกต่อเทสต์ แล้วชี้ database.DB ไปที่มัน
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// sqlite in-memory ผูกกับ connection — จำกัดไว้ตัวเดียวกัน DB หาย
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.Migrate(db)
	database.DB = db
	return db
}

// สร้าง request+context พร้อม JSON body และ identity ที่ RequireAuth จะแนบให้
func newCtx(t *testing.T, e *echo.Echo, method, path string, body any, uid uint, role models.Role) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uid)
	c.Set("role", role)
	return c, rec
}

func createTestUser(t *testing.T, name string, role models.Role, status string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s-%s@test.local", name, t.Name()),
		PasswordHash: string(hash),
		Role:         role,
		Status:       status,
	}
	require.NoError(t, database.DB.Create(&u).Error)
	return u
}

func linkParent(t *testing.T, parentID, studentID uint) {
	t.Helper()
	require.NoError(t, database.DB.Create(&models.ParentLink{ParentID: parentID, StudentID: studentID}).Error)
}

func assignMentor(t *testing.T, mentorID, studentID uint) {
	t.Helper()
	require.NoError(t, database.DB.Create(&models.MentorAssignment{MentorID: mentorID, StudentID: studentID}).Error)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest))
}

func errCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, rec, &body)
	return body.Error
}
