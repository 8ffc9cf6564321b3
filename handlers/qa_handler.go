package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/taejun-song/study-room-system/config"
	"github.com/taejun-song/study-room-system/database"
	"github.com/taejun-song/study-room-system/models"
)

type QAHandler struct {
	// ถ้า true: answer ได้เฉพาะ ACCEPTED/IN_PROGRESS (ดีฟอลต์ false ตามพฤติกรรมเดิม
	// ที่ยอมให้ติวเตอร์ตอบ booking ที่ยังเป็น REQUESTED ได้เลย)
	StrictAnswer bool
}

func NewQAHandler(cfg *config.Config) *QAHandler {
	return &QAHandler{StrictAnswer: cfg.QAStrictAnswer}
}

type bookReq struct {
	MentorID  uint      `json:"mentorId" validate:"required"`
	Subject   string    `json:"subject" validate:"required"`
	Chapter   string    `json:"chapter"`
	Summary   string    `json:"summary" validate:"required"`
	Images    []string  `json:"images"`
	SlotStart time.Time `json:"slotStart" validate:"required"`
	SlotEnd   time.Time `json:"slotEnd" validate:"required"`
}

type answerReq struct {
	AnswerText  string   `json:"answerText" validate:"required"`
	AnswerFiles []string `json:"answerFiles"`
}

// GET /qa/mentors?subject= — รายชื่อติวเตอร์ที่ ACTIVE พร้อมโปรไฟล์
func (h *QAHandler) Mentors(c echo.Context) error {
	subject := strings.TrimSpace(c.QueryParam("subject"))

	var mentors []models.User
	if err := database.DB.
		Where("role = ? AND status = ?", models.RoleMentor, models.UserActive).
		Find(&mentors).Error; err != nil {
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not list mentors")
	}

	out := make([]map[string]any, 0, len(mentors))
	for _, m := range mentors {
		var prof models.MentorProfile
		if err := database.DB.Where("user_id = ?", m.ID).First(&prof).Error; err != nil {
			continue // ไม่มีโปรไฟล์ = ยังไม่เปิดรับถามตอบ
		}
		if subject != "" && !containsFold(prof.Subjects, subject) {
			continue
		}
		out = append(out, map[string]any{
			"id":         m.ID,
			"name":       m.Name,
			"email":      m.Email,
			"university": prof.University,
			"major":      prof.Major,
			"bio":        prof.Bio,
			"subjects":   prof.Subjects,
			"rating":     prof.RatingAvg,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"mentors": out})
}

func containsFold(list []string, want string) bool {
	for _, s := range list {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}

// POST /qa/book — จองคิวถามตอบ เช็คชนช่วงเวลาแบบ [start, end) ใน transaction เดียวกับ insert
// (Postgres มี exclusion constraint qa_bookings_no_overlap กันชั้นสุดท้ายอีกชั้น)
func (h *QAHandler) Book(c echo.Context) error {
	uid, _ := currentUser(c)

	var req bookReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "cannot parse request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}
	if !req.SlotEnd.After(req.SlotStart) {
		return jsonError(c, http.StatusBadRequest, "VALIDATION_ERROR", "slotEnd must be after slotStart")
	}

	// ติวเตอร์ต้องมีอยู่จริงและ ACTIVE
	var mentor models.User
	if err := database.DB.
		Where("id = ? AND role = ? AND status = ?", req.MentorID, models.RoleMentor, models.UserActive).
		First(&mentor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, http.StatusNotFound, "MENTOR_NOT_FOUND", "mentor not found")
		}
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not look up mentor")
	}

	booking := models.QABooking{
		StudentID: uid,
		MentorID:  req.MentorID,
		Subject:   req.Subject,
		Chapter:   req.Chapter,
		Summary:   req.Summary,
		Images:    req.Images,
		SlotStart: req.SlotStart,
		SlotEnd:   req.SlotEnd,
		Status:    models.BookingRequested,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.QABooking
		err := database.LockForUpdate(tx).
			Where("mentor_id = ? AND status IN ?", req.MentorID, models.ActiveBookingStatuses()).
			Where("slot_start < ? AND slot_end > ?", req.SlotEnd, req.SlotStart).
			First(&existing).Error
		if err == nil {
			return errConflict
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(&booking).Error; err != nil {
			// แพ้ race ให้ insert อีกตัวที่ constraint จับได้ → ถือเป็นชนเหมือนกัน
			if strings.Contains(err.Error(), "qa_bookings_no_overlap") {
				return errConflict
			}
			return err
		}
		return nil
	})

	switch {
	case errors.Is(err, errConflict):
		return jsonError(c, http.StatusConflict, "SLOT_TAKEN", "Time slot is already booked")
	case err != nil:
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not create booking")
	}
	return c.JSON(http.StatusCreated, map[string]any{"booking": booking})
}

// POST /qa/:id/accept — เฉพาะติวเตอร์เจ้าของ booking, เฉพาะสถานะ REQUESTED
func (h *QAHandler) Accept(c echo.Context) error {
	uid, _ := currentUser(c)

	id, ok := parseID(c.Param("id"))
	if !ok {
		return jsonError(c, http.StatusNotFound, "NOT_FOUND", "booking not found")
	}

	var out models.QABooking
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.QABooking
		if err := database.LockForUpdate(tx).First(&booking, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound
			}
			return err
		}
		if booking.MentorID != uid {
			return errForbidden
		}
		if booking.Status != models.BookingRequested {
			return errConflict
		}
		booking.Status = models.BookingAccepted
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}
		out = booking
		return nil
	})

	switch {
	case errors.Is(err, errNotFound):
		return jsonError(c, http.StatusNotFound, "NOT_FOUND", "booking not found")
	case errors.Is(err, errForbidden):
		return jsonError(c, http.StatusForbidden, "FORBIDDEN", "not your booking")
	case errors.Is(err, errConflict):
		return jsonError(c, http.StatusConflict, "ALREADY_PROCESSED", "booking already processed")
	case err != nil:
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not update booking")
	}
	return c.JSON(http.StatusOK, map[string]any{"booking": out})
}

// POST /qa/:id/answer — เขียนคำตอบแล้วปิดงานเป็น COMPLETED
func (h *QAHandler) Answer(c echo.Context) error {
	uid, _ := currentUser(c)

	id, ok := parseID(c.Param("id"))
	if !ok {
		return jsonError(c, http.StatusNotFound, "NOT_FOUND", "booking not found")
	}

	var req answerReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "cannot parse request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	var out models.QABooking
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.QABooking
		if err := database.LockForUpdate(tx).First(&booking, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound
			}
			return err
		}
		if booking.MentorID != uid {
			return errForbidden
		}
		if h.StrictAnswer &&
			booking.Status != models.BookingAccepted && booking.Status != models.BookingInProgress {
			return errConflict
		}
		booking.Status = models.BookingCompleted
		booking.AnswerText = req.AnswerText
		booking.AnswerFiles = req.AnswerFiles
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}
		out = booking
		return nil
	})

	switch {
	case errors.Is(err, errNotFound):
		return jsonError(c, http.StatusNotFound, "NOT_FOUND", "booking not found")
	case errors.Is(err, errForbidden):
		return jsonError(c, http.StatusForbidden, "FORBIDDEN", "not your booking")
	case errors.Is(err, errConflict):
		return jsonError(c, http.StatusConflict, "NOT_ANSWERABLE", "booking must be accepted before answering")
	case err != nil:
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not update booking")
	}
	return c.JSON(http.StatusOK, map[string]any{"booking": out})
}

// GET /qa/history?subject=&chapter= — งานที่จบแล้วของ caller (ฝั่งนักเรียนหรือติวเตอร์)
func (h *QAHandler) History(c echo.Context) error {
	uid, _ := currentUser(c)

	subject := strings.TrimSpace(c.QueryParam("subject"))
	chapter := strings.TrimSpace(c.QueryParam("chapter"))

	tx := database.DB.Model(&models.QABooking{}).
		Where("(student_id = ? OR mentor_id = ?)", uid, uid).
		Where("status = ?", models.BookingCompleted)
	if subject != "" {
		tx = tx.Where("subject = ?", subject)
	}
	if chapter != "" {
		tx = tx.Where("chapter = ?", chapter)
	}

	var rows []models.QABooking
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not list history")
	}
	return c.JSON(http.StatusOK, map[string]any{"history": rows})
}
