package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taejun-song/study-room-system/database"
	"github.com/taejun-song/study-room-system/models"
)

func TestCheckinCheckout(t *testing.T) {
	setupDB(t)
	e := echo.New()
	h := NewAttendanceHandler()
	student := createTestUser(t, "student", models.RoleStudent, models.UserActive)

	// เช็คเอาต์ทั้งที่ยังไม่เช็คอิน → 409
	c, rec := newCtx(t, e, http.MethodPost, "/api/attendance/checkout", nil, student.ID, models.RoleStudent)
	require.NoError(t, h.Checkout(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "NOT_CHECKED_IN", errCode(t, rec))

	// เช็คอินครั้งแรก
	c, rec = newCtx(t, e, http.MethodPost, "/api/attendance/checkin", nil, student.ID, models.RoleStudent)
	require.NoError(t, h.Checkin(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	// เช็คอินซ้ำทั้งที่ยังไม่ออก → 409
	c, rec = newCtx(t, e, http.MethodPost, "/api/attendance/checkin", nil, student.ID, models.RoleStudent)
	require.NoError(t, h.Checkin(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_CHECKED_IN", errCode(t, rec))

	// เช็คเอาต์ปิดเซสชัน
	c, rec = newCtx(t, e, http.MethodPost, "/api/attendance/checkout", nil, student.ID, models.RoleStudent)
	require.NoError(t, h.Checkout(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// ปิดแล้วเข้าใหม่ได้
	c, rec = newCtx(t, e, http.MethodPost, "/api/attendance/checkin", nil, student.ID, models.RoleStudent)
	require.NoError(t, h.Checkin(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCalendarGroupsByDay(t *testing.T) {
	setupDB(t)
	e := echo.New()
	h := NewAttendanceHandler()
	student := createTestUser(t, "student", models.RoleStudent, models.UserActive)
	parent := createTestUser(t, "parent", models.RoleParent, models.UserActive)
	outsider := createTestUser(t, "outsider", models.RoleParent, models.UserActive)
	linkParent(t, parent.ID, student.ID)

	day1a := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	day1aEnd := day1a.Add(90 * time.Minute)
	day1b := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)
	day1bEnd := day1b.Add(30 * time.Minute)
	day2 := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	day2End := day2.Add(60 * time.Minute)
	for _, s := range []models.AttendanceSession{
		{StudentID: student.ID, StartAt: day1a, EndAt: &day1aEnd, Source: models.SourceMobile},
		{StudentID: student.ID, StartAt: day1b, EndAt: &day1bEnd, Source: models.SourceKiosk},
		{StudentID: student.ID, StartAt: day2, EndAt: &day2End, Source: models.SourceMobile},
	} {
		require.NoError(t, database.DB.Create(&s).Error)
	}

	type day struct {
		Date         string           `json:"date"`
		Sessions     []map[string]any `json:"sessions"`
		TotalMinutes int              `json:"totalMinutes"`
	}
	type calResp struct {
		Calendar []day `json:"calendar"`
	}

	// ผู้ปกครองที่ผูกไว้ดูปฏิทินลูกได้
	c, rec := newCtx(t, e, http.MethodGet,
		"/api/attendance/calendar?studentId="+itoa(student.ID), nil, parent.ID, models.RoleParent)
	require.NoError(t, h.Calendar(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp calResp
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Calendar, 2)
	// ล่าสุดก่อน
	assert.Equal(t, "2024-03-02", resp.Calendar[0].Date)
	assert.Equal(t, 60, resp.Calendar[0].TotalMinutes)
	assert.Equal(t, "2024-03-01", resp.Calendar[1].Date)
	assert.Equal(t, 120, resp.Calendar[1].TotalMinutes)
	assert.Len(t, resp.Calendar[1].Sessions, 2)

	// ผู้ปกครองที่ไม่ได้ผูก → 403
	c, rec = newCtx(t, e, http.MethodGet,
		"/api/attendance/calendar?studentId="+itoa(student.ID), nil, outsider.ID, models.RoleParent)
	require.NoError(t, h.Calendar(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEditSessionWritesAudit(t *testing.T) {
	setupDB(t)
	e := echo.New()
	h := NewAttendanceHandler()
	student := createTestUser(t, "student", models.RoleStudent, models.UserActive)
	admin := createTestUser(t, "admin", models.RoleAdmin, models.UserActive)

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	session := models.AttendanceSession{StudentID: student.ID, StartAt: start, Source: models.SourceMobile}
	require.NoError(t, database.DB.Create(&session).Error)

	end := start.Add(2 * time.Hour)
	c, rec := newCtx(t, e, http.MethodPut, "/api/attendance/session/1",
		map[string]any{"endAt": end.Format(time.RFC3339), "notes": "forgot to check out"},
		admin.ID, models.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues(itoa(session.ID))
	require.NoError(t, h.EditSession(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.AttendanceSession
	require.NoError(t, database.DB.First(&updated, "id = ?", session.ID).Error)
	require.NotNil(t, updated.EndAt)
	assert.Equal(t, "forgot to check out", updated.Notes)
	require.NotNil(t, updated.EditedBy)
	assert.Equal(t, admin.ID, *updated.EditedBy)

	var logs []models.AuditLog
	require.NoError(t, database.DB.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditEditAttendance, logs[0].Action)
	assert.Equal(t, admin.ID, logs[0].ActorID)
}
