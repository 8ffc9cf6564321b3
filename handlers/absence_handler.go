package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/taejun-song/study-room-system/database"
	"github.com/taejun-song/study-room-system/models"
)

type AbsenceHandler struct{}

func NewAbsenceHandler() *AbsenceHandler { return &AbsenceHandler{} }

type createAbsenceReq struct {
	Date        string             `json:"date" validate:"required,datetime=2006-01-02"`
	Type        models.AbsenceType `json:"type" validate:"required"`
	StartAt     *time.Time         `json:"startAt"`
	EndAt       *time.Time         `json:"endAt"`
	ReasonText  string             `json:"reasonText" validate:"required"`
	EvidenceURL string             `json:"evidenceUrl"`
}

type decideReq struct {
	Comment string `json:"comment"`
}

// POST /absence — นักเรียนยื่นใบลา เริ่มที่ PENDING/PENDING/PENDING
func (h *AbsenceHandler) Create(c echo.Context) error {
	uid, _ := currentUser(c)

	var req createAbsenceReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "cannot parse request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}
	if !req.Type.Valid() {
		return jsonError(c, http.StatusBadRequest, "VALIDATION_ERROR", "unknown absence type")
	}
	if strings.TrimSpace(req.ReasonText) == "" {
		return jsonError(c, http.StatusBadRequest, "VALIDATION_ERROR", "reasonText is required")
	}

	rec := models.AbsenceRequest{
		StudentID:      uid,
		Date:           req.Date,
		Type:           req.Type,
		StartAt:        req.StartAt,
		EndAt:          req.EndAt,
		ReasonText:     strings.TrimSpace(req.ReasonText),
		EvidenceURL:    req.EvidenceURL,
		MentorDecision: models.DecisionPending,
		ParentDecision: models.DecisionPending,
		Status:         models.AbsencePending,
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not create request")
	}
	return c.JSON(http.StatusCreated, map[string]any{"request": rec})
}

// GET /absence?studentId=&status= — ขอบเขตตาม role (ดู resolveStudentScope)
func (h *AbsenceHandler) List(c echo.Context) error {
	uid, role := currentUser(c)

	status := strings.TrimSpace(c.QueryParam("status"))
	requested, _ := parseID(strings.TrimSpace(c.QueryParam("studentId")))

	tx := database.DB.Model(&models.AbsenceRequest{})

	switch {
	case requested != 0 || role == models.RoleStudent:
		target, ok := resolveStudentScope(database.DB, uid, role, requested)
		if !ok {
			return jsonError(c, http.StatusForbidden, "FORBIDDEN", "not authorized for this student")
		}
		tx = tx.Where("student_id = ?", target)
	case role == models.RoleParent:
		tx = tx.Where("student_id IN (?)",
			database.DB.Model(&models.ParentLink{}).Select("student_id").Where("parent_id = ?", uid))
	case role == models.RoleMentor:
		tx = tx.Where("student_id IN (?)",
			database.DB.Model(&models.MentorAssignment{}).Select("student_id").Where("mentor_id = ?", uid))
	}
	// admin ไม่ระบุ studentId → เห็นทั้งหมด

	if status != "" {
		tx = tx.Where("status = ?", status)
	}

	var rows []models.AbsenceRequest
	if err := tx.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not list requests")
	}
	return c.JSON(http.StatusOK, map[string]any{"requests": rows})
}

// POST /absence/:id/approve
func (h *AbsenceHandler) Approve(c echo.Context) error {
	return h.decide(c, models.DecisionApproved)
}

// POST /absence/:id/reject
func (h *AbsenceHandler) Reject(c echo.Context) error {
	return h.decide(c, models.DecisionRejected)
}

// decide เขียนผลตัดสินของฝั่งที่เรียก แล้วคิดสถานะรวมใหม่จากค่าที่เพิ่งอ่านสด ๆ
// ทั้งหมดอยู่ใน transaction เดียว + ล็อกแถว กันสองฝั่งตัดสินพร้อมกันแล้วทับกัน
func (h *AbsenceHandler) decide(c echo.Context, decision models.Decision) error {
	uid, role := currentUser(c)

	id, ok := parseID(c.Param("id"))
	if !ok {
		return jsonError(c, http.StatusNotFound, "NOT_FOUND", "request not found")
	}

	var body decideReq
	if err := c.Bind(&body); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "cannot parse request body")
	}

	var out models.AbsenceRequest
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var req models.AbsenceRequest
		if err := database.LockForUpdate(tx).First(&req, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound
			}
			return err
		}

		// ตัดสินแล้วตัดสินซ้ำไม่ได้
		if req.Status.Terminal() {
			return errConflict
		}

		switch role {
		case models.RoleMentor:
			if !mentorCanDecideAbsence(tx, uid, req.StudentID) {
				return errForbidden
			}
			req.MentorDecision = decision
			req.MentorComment = body.Comment
		case models.RoleParent:
			if !parentCanDecideAbsence(tx, uid, req.StudentID) {
				return errForbidden
			}
			req.ParentDecision = decision
			req.ParentComment = body.Comment
		default:
			return errForbidden
		}

		req.Status = models.ResolveAbsenceStatus(req.MentorDecision, req.ParentDecision)
		if req.Status.Terminal() {
			now := time.Now()
			req.DecidedAt = &now
		}

		if err := tx.Save(&req).Error; err != nil {
			return err
		}
		out = req
		return nil
	})

	switch {
	case errors.Is(err, errNotFound):
		return jsonError(c, http.StatusNotFound, "NOT_FOUND", "request not found")
	case errors.Is(err, errForbidden):
		return jsonError(c, http.StatusForbidden, "FORBIDDEN", "not authorized to decide this request")
	case errors.Is(err, errConflict):
		return jsonError(c, http.StatusConflict, "ALREADY_DECIDED", "request already decided")
	case err != nil:
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not update request")
	}
	return c.JSON(http.StatusOK, map[string]any{"request": out})
}
