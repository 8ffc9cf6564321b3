package handlers

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/taejun-song/study-room-system/database"
	"github.com/taejun-song/study-room-system/models"
)

type AttendanceHandler struct{}

func NewAttendanceHandler() *AttendanceHandler { return &AttendanceHandler{} }

// POST /attendance/checkin — เปิดเซสชันใหม่; มีเซสชันค้าง (ยังไม่ checkout) = ไม่ให้เข้าใหม่
func (h *AttendanceHandler) Checkin(c echo.Context) error {
	uid, _ := currentUser(c)

	var req struct {
		Source string `json:"source"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "cannot parse request body")
	}
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = models.SourceMobile
	}

	session := models.AttendanceSession{
		StudentID: uid,
		StartAt:   time.Now(),
		Source:    source,
	}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var open models.AttendanceSession
		err := tx.Where("student_id = ? AND end_at IS NULL", uid).First(&open).Error
		if err == nil {
			return errConflict
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&session).Error
	})

	switch {
	case errors.Is(err, errConflict):
		return jsonError(c, http.StatusConflict, "ALREADY_CHECKED_IN", "already checked in")
	case err != nil:
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not check in")
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"session": map[string]any{"id": session.ID, "startAt": session.StartAt},
	})
}

// POST /attendance/checkout — ปิดเซสชันที่ค้างอยู่
func (h *AttendanceHandler) Checkout(c echo.Context) error {
	uid, _ := currentUser(c)

	var out models.AttendanceSession
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var open models.AttendanceSession
		if err := database.LockForUpdate(tx).
			Where("student_id = ? AND end_at IS NULL", uid).
			First(&open).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound
			}
			return err
		}
		now := time.Now()
		open.EndAt = &now
		if err := tx.Save(&open).Error; err != nil {
			return err
		}
		out = open
		return nil
	})

	switch {
	case errors.Is(err, errNotFound):
		return jsonError(c, http.StatusConflict, "NOT_CHECKED_IN", "no active check-in found")
	case err != nil:
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not check out")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"session": map[string]any{
			"id":              out.ID,
			"startAt":         out.StartAt,
			"endAt":           out.EndAt,
			"durationMinutes": out.DurationMinutes(),
		},
	})
}

// GET /attendance/calendar?studentId=&from=&to= — เซสชันจัดกลุ่มรายวัน + รวมนาที
func (h *AttendanceHandler) Calendar(c echo.Context) error {
	uid, role := currentUser(c)

	requested, _ := parseID(strings.TrimSpace(c.QueryParam("studentId")))
	target, ok := resolveStudentScope(database.DB, uid, role, requested)
	if !ok {
		return jsonError(c, http.StatusForbidden, "FORBIDDEN", "not authorized to view this student")
	}

	tx := database.DB.Where("student_id = ?", target)
	if from := strings.TrimSpace(c.QueryParam("from")); from != "" {
		tx = tx.Where("start_at >= ?", from)
	}
	if to := strings.TrimSpace(c.QueryParam("to")); to != "" {
		tx = tx.Where("start_at <= ?", to)
	}

	var sessions []models.AttendanceSession
	if err := tx.Order("start_at DESC").Find(&sessions).Error; err != nil {
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not load calendar")
	}

	type day struct {
		Date         string           `json:"date"`
		Sessions     []map[string]any `json:"sessions"`
		TotalMinutes int              `json:"totalMinutes"`
	}
	byDate := map[string]*day{}
	for _, s := range sessions {
		d := s.StartAt.Format("2006-01-02")
		if byDate[d] == nil {
			byDate[d] = &day{Date: d, Sessions: []map[string]any{}}
		}
		dur := s.DurationMinutes()
		byDate[d].Sessions = append(byDate[d].Sessions, map[string]any{
			"id":              s.ID,
			"startAt":         s.StartAt,
			"endAt":           s.EndAt,
			"durationMinutes": dur,
			"source":          s.Source,
		})
		byDate[d].TotalMinutes += dur
	}

	days := make([]*day, 0, len(byDate))
	for _, d := range byDate {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })

	return c.JSON(http.StatusOK, map[string]any{"calendar": days})
}

// PUT /attendance/session/:id — admin แก้เซสชันย้อนหลัง พร้อมลง audit log
func (h *AttendanceHandler) EditSession(c echo.Context) error {
	uid, _ := currentUser(c)

	id, ok := parseID(c.Param("id"))
	if !ok {
		return jsonError(c, http.StatusNotFound, "NOT_FOUND", "session not found")
	}

	var req struct {
		StartAt *time.Time `json:"startAt"`
		EndAt   *time.Time `json:"endAt"`
		Notes   string     `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "cannot parse request body")
	}

	var out models.AttendanceSession
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var session models.AttendanceSession
		if err := database.LockForUpdate(tx).First(&session, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound
			}
			return err
		}
		if req.StartAt != nil {
			session.StartAt = *req.StartAt
		}
		if req.EndAt != nil {
			session.EndAt = req.EndAt
		}
		if req.Notes != "" {
			session.Notes = req.Notes
		}
		session.EditedBy = &uid
		if err := tx.Save(&session).Error; err != nil {
			return err
		}
		out = session

		return tx.Create(&models.AuditLog{
			ActorID:    uid,
			Action:     models.AuditEditAttendance,
			EntityType: "AttendanceSession",
			EntityID:   c.Param("id"),
			Payload:    map[string]any{"startAt": req.StartAt, "endAt": req.EndAt, "notes": req.Notes},
		}).Error
	})

	switch {
	case errors.Is(err, errNotFound):
		return jsonError(c, http.StatusNotFound, "NOT_FOUND", "session not found")
	case err != nil:
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not update session")
	}
	return c.JSON(http.StatusOK, map[string]any{"session": out})
}
