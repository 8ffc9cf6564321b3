package handlers

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taejun-song/study-room-system/database"
	"github.com/taejun-song/study-room-system/models"
)

type AnalyticsHandler struct{}

func NewAnalyticsHandler() *AnalyticsHandler { return &AnalyticsHandler{} }

type rankingRow struct {
	StudentID    uint   `json:"studentId"`
	Name         string `json:"name"`
	TotalMinutes int    `json:"totalMinutes"`
	TotalHours   int    `json:"totalHours"`
	SessionCount int    `json:"sessionCount"`
}

// GET /analytics/ranks/study?period=daily|weekly|monthly — จัดอันดับเวลานั่งอ่าน top 50
func (h *AnalyticsHandler) StudyRankings(c echo.Context) error {
	period := strings.TrimSpace(c.QueryParam("period"))
	if period == "" {
		period = "weekly"
	}

	now := time.Now()
	var since time.Time
	switch period {
	case "daily":
		since = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "monthly":
		since = now.AddDate(0, -1, 0)
	default:
		period = "weekly"
		since = now.AddDate(0, 0, -7)
	}

	var students []models.User
	if err := database.DB.
		Where("role = ? AND status = ?", models.RoleStudent, models.UserActive).
		Find(&students).Error; err != nil {
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not load students")
	}

	rankings := make([]rankingRow, 0, len(students))
	for _, st := range students {
		var sessions []models.AttendanceSession
		if err := database.DB.
			Where("student_id = ? AND start_at >= ? AND end_at IS NOT NULL", st.ID, since).
			Find(&sessions).Error; err != nil {
			c.Logger().Error(err)
			return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not load sessions")
		}
		total := 0
		for _, s := range sessions {
			total += s.DurationMinutes()
		}
		if total == 0 {
			continue
		}
		rankings = append(rankings, rankingRow{
			StudentID:    st.ID,
			Name:         st.Name,
			TotalMinutes: total,
			TotalHours:   total / 60,
			SessionCount: len(sessions),
		})
	}
	sort.Slice(rankings, func(i, j int) bool { return rankings[i].TotalMinutes > rankings[j].TotalMinutes })
	if len(rankings) > 50 {
		rankings = rankings[:50]
	}

	return c.JSON(http.StatusOK, map[string]any{"period": period, "rankings": rankings})
}

// POST /analytics/examscore — นักเรียนรายงานคะแนนสอบเอง
func (h *AnalyticsHandler) SubmitExamScore(c echo.Context) error {
	uid, _ := currentUser(c)

	var req struct {
		ExamName      string         `json:"examName" validate:"required"`
		ExamDate      string         `json:"examDate" validate:"required,datetime=2006-01-02"`
		SubjectScores map[string]int `json:"subjectScores"`
		Total         int            `json:"total" validate:"required"`
		ProofURL      string         `json:"proofUrl"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "cannot parse request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	score := models.ExamScore{
		StudentID:     uid,
		ExamName:      req.ExamName,
		ExamDate:      req.ExamDate,
		SubjectScores: req.SubjectScores,
		Total:         req.Total,
		ProofURL:      req.ProofURL,
	}
	if err := database.DB.Create(&score).Error; err != nil {
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not save score")
	}
	return c.JSON(http.StatusCreated, map[string]any{"score": score})
}

// GET /analytics/ranks/exam?examName=
func (h *AnalyticsHandler) ExamRankings(c echo.Context) error {
	examName := strings.TrimSpace(c.QueryParam("examName"))
	if examName == "" {
		return jsonError(c, http.StatusBadRequest, "VALIDATION_ERROR", "examName is required")
	}

	var scores []models.ExamScore
	if err := database.DB.
		Where("exam_name = ?", examName).
		Order("total DESC").
		Find(&scores).Error; err != nil {
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not load scores")
	}

	rankings := make([]map[string]any, 0, len(scores))
	for i, s := range scores {
		var st models.User
		name := ""
		if err := database.DB.First(&st, "id = ?", s.StudentID).Error; err == nil {
			name = st.Name
		}
		rankings = append(rankings, map[string]any{
			"rank":      i + 1,
			"studentId": s.StudentID,
			"name":      name,
			"total":     s.Total,
			"examDate":  s.ExamDate,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"examName": examName, "rankings": rankings})
}

// GET /analytics/stats?studentId= — สถิติรายคน (เวลานั่งอ่าน + pomodoro + แยกตามวิชา)
func (h *AnalyticsHandler) StudentStats(c echo.Context) error {
	uid, role := currentUser(c)

	requested, _ := parseID(strings.TrimSpace(c.QueryParam("studentId")))
	target, ok := resolveStudentScope(database.DB, uid, role, requested)
	if !ok {
		return jsonError(c, http.StatusForbidden, "FORBIDDEN", "not authorized to view this student")
	}

	var sessions []models.AttendanceSession
	if err := database.DB.
		Where("student_id = ? AND end_at IS NOT NULL", target).
		Order("start_at DESC").Limit(100).
		Find(&sessions).Error; err != nil {
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not load sessions")
	}
	attendanceMinutes := 0
	for _, s := range sessions {
		attendanceMinutes += s.DurationMinutes()
	}

	var logs []models.StudyLog
	if err := database.DB.
		Where("student_id = ?", target).
		Order("logged_at DESC").Limit(100).
		Find(&logs).Error; err != nil {
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not load study logs")
	}
	pomodoroMinutes := 0
	bySubject := map[string]int{}
	for _, l := range logs {
		pomodoroMinutes += l.Minutes
		bySubject[l.Subject] += l.Minutes
	}

	return c.JSON(http.StatusOK, map[string]any{
		"studentId": target,
		"attendance": map[string]any{
			"totalMinutes": attendanceMinutes,
			"totalHours":   attendanceMinutes / 60,
			"sessionCount": len(sessions),
		},
		"pomodoro": map[string]any{
			"totalMinutes": pomodoroMinutes,
			"totalHours":   pomodoroMinutes / 60,
			"sessionCount": len(logs),
		},
		"subjectBreakdown": bySubject,
	})
}

// POST /analytics/pomodoro — บันทึกรอบจับเวลาอ่านเอง
func (h *AnalyticsHandler) LogPomodoro(c echo.Context) error {
	uid, _ := currentUser(c)

	var req struct {
		Subject string `json:"subject" validate:"required"`
		Chapter string `json:"chapter"`
		Minutes int    `json:"minutes" validate:"required,gt=0"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "cannot parse request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	log := models.StudyLog{
		StudentID: uid,
		Subject:   req.Subject,
		Chapter:   req.Chapter,
		Minutes:   req.Minutes,
		Source:    "POMODORO",
	}
	if err := database.DB.Create(&log).Error; err != nil {
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not save log")
	}
	return c.JSON(http.StatusCreated, map[string]any{"log": log})
}
