package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/taejun-song/study-room-system/database"
	"github.com/taejun-song/study-room-system/models"
)

type AdminHandler struct{}

func NewAdminHandler() *AdminHandler { return &AdminHandler{} }

// โค้ดสมัคร 8 ตัวอักษรจาก uuid (ตัดขีด, ตัวพิมพ์ใหญ่)
func newJoinCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
}

// POST /admin/joincode
func (h *AdminHandler) CreateJoinCode(c echo.Context) error {
	uid, _ := currentUser(c)

	var req struct {
		RoleScope string     `json:"roleScope" validate:"required"`
		CenterID  string     `json:"centerId"`
		ExpiresAt *time.Time `json:"expiresAt"`
		MaxUses   *int       `json:"maxUses"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "cannot parse request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}
	scope, ok := models.ParseRole(req.RoleScope)
	if !ok {
		return jsonError(c, http.StatusBadRequest, "VALIDATION_ERROR", "unknown roleScope")
	}

	code := models.JoinCode{
		Code:      newJoinCode(),
		RoleScope: scope,
		CenterID:  req.CenterID,
		ExpiresAt: req.ExpiresAt,
		MaxUses:   req.MaxUses,
		CreatedBy: uid,
	}
	if err := database.DB.Create(&code).Error; err != nil {
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not create join code")
	}
	return c.JSON(http.StatusCreated, map[string]any{"joinCode": code})
}

// GET /admin/joincode?roleScope=
func (h *AdminHandler) ListJoinCodes(c echo.Context) error {
	tx := database.DB.Model(&models.JoinCode{}).Order("created_at DESC")
	if scope := strings.TrimSpace(c.QueryParam("roleScope")); scope != "" {
		tx = tx.Where("role_scope = ?", strings.ToUpper(scope))
	}

	var codes []models.JoinCode
	if err := tx.Find(&codes).Error; err != nil {
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not list join codes")
	}
	return c.JSON(http.StatusOK, map[string]any{"joinCodes": codes})
}

// POST /admin/link-parent — ผูกผู้ปกครองกับนักเรียน
func (h *AdminHandler) LinkParentStudent(c echo.Context) error {
	var req struct {
		ParentID  uint `json:"parentId" validate:"required"`
		StudentID uint `json:"studentId" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "cannot parse request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	// สองฝั่งต้องมีจริงและ role ถูก
	var parent, student models.User
	if err := database.DB.Where("id = ? AND role = ?", req.ParentID, models.RoleParent).First(&parent).Error; err != nil {
		return jsonError(c, http.StatusNotFound, "NOT_FOUND", "parent or student not found")
	}
	if err := database.DB.Where("id = ? AND role = ?", req.StudentID, models.RoleStudent).First(&student).Error; err != nil {
		return jsonError(c, http.StatusNotFound, "NOT_FOUND", "parent or student not found")
	}

	var existing models.ParentLink
	if err := database.DB.
		Where("parent_id = ? AND student_id = ?", req.ParentID, req.StudentID).
		First(&existing).Error; err == nil {
		return jsonError(c, http.StatusConflict, "LINK_EXISTS", "link already exists")
	}

	link := models.ParentLink{ParentID: req.ParentID, StudentID: req.StudentID}
	if err := database.DB.Create(&link).Error; err != nil {
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not create link")
	}
	return c.JSON(http.StatusCreated, map[string]any{"link": link})
}

// POST /admin/assign-mentor — นักเรียน 1 คนมีติวเตอร์ประจำได้คนเดียว (assign ใหม่ = ทับ)
func (h *AdminHandler) AssignMentor(c echo.Context) error {
	var req struct {
		StudentID uint `json:"studentId" validate:"required"`
		MentorID  uint `json:"mentorId" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "cannot parse request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	var mentor, student models.User
	if err := database.DB.Where("id = ? AND role = ?", req.MentorID, models.RoleMentor).First(&mentor).Error; err != nil {
		return jsonError(c, http.StatusNotFound, "NOT_FOUND", "mentor or student not found")
	}
	if err := database.DB.Where("id = ? AND role = ?", req.StudentID, models.RoleStudent).First(&student).Error; err != nil {
		return jsonError(c, http.StatusNotFound, "NOT_FOUND", "mentor or student not found")
	}

	var assignment models.MentorAssignment
	err := database.DB.Where("student_id = ?", req.StudentID).First(&assignment).Error
	switch {
	case err == nil:
		assignment.MentorID = req.MentorID
		if err := database.DB.Save(&assignment).Error; err != nil {
			c.Logger().Error(err)
			return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not assign mentor")
		}
		return c.JSON(http.StatusOK, map[string]any{"assignment": assignment})
	case errors.Is(err, gorm.ErrRecordNotFound):
		assignment = models.MentorAssignment{StudentID: req.StudentID, MentorID: req.MentorID}
		if err := database.DB.Create(&assignment).Error; err != nil {
			c.Logger().Error(err)
			return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not assign mentor")
		}
		return c.JSON(http.StatusCreated, map[string]any{"assignment": assignment})
	default:
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not assign mentor")
	}
}

// GET /admin/students/:studentId/assignments — ติวเตอร์ประจำ + ผู้ปกครองที่ผูกไว้
func (h *AdminHandler) StudentAssignments(c echo.Context) error {
	studentID, ok := parseID(c.Param("studentId"))
	if !ok {
		return jsonError(c, http.StatusNotFound, "NOT_FOUND", "student not found")
	}

	out := map[string]any{"studentId": studentID, "mentor": nil, "parents": []map[string]any{}}

	var assignment models.MentorAssignment
	if err := database.DB.Where("student_id = ?", studentID).First(&assignment).Error; err == nil {
		var mentor models.User
		if err := database.DB.First(&mentor, "id = ?", assignment.MentorID).Error; err == nil {
			out["mentor"] = publicUser(mentor)
		}
	}

	var links []models.ParentLink
	if err := database.DB.Where("student_id = ?", studentID).Find(&links).Error; err == nil {
		parents := make([]map[string]any, 0, len(links))
		for _, l := range links {
			var p models.User
			if err := database.DB.First(&p, "id = ?", l.ParentID).Error; err == nil {
				parents = append(parents, publicUser(p))
			}
		}
		out["parents"] = parents
	}
	return c.JSON(http.StatusOK, out)
}

// POST /admin/announcement
func (h *AdminHandler) CreateAnnouncement(c echo.Context) error {
	var req struct {
		Title         string   `json:"title" validate:"required"`
		Body          string   `json:"body" validate:"required"`
		Pinned        bool     `json:"pinned"`
		AudienceScope []string `json:"audienceScope"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "cannot parse request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	ann := models.Announcement{
		Title:         req.Title,
		Body:          req.Body,
		Pinned:        req.Pinned,
		AudienceScope: req.AudienceScope,
	}
	if err := database.DB.Create(&ann).Error; err != nil {
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not create announcement")
	}
	return c.JSON(http.StatusCreated, map[string]any{"announcement": ann})
}

// GET /admin/announcement — กรองตาม role ของคนดู (scope ว่าง = เห็นหมด), ปักหมุดขึ้นก่อน
func (h *AdminHandler) ListAnnouncements(c echo.Context) error {
	_, role := currentUser(c)

	var all []models.Announcement
	if err := database.DB.
		Order("pinned DESC, created_at DESC").
		Find(&all).Error; err != nil {
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not list announcements")
	}

	// AudienceScope เก็บเป็น json — กรองฝั่งแอป
	out := make([]models.Announcement, 0, len(all))
	for _, a := range all {
		if len(a.AudienceScope) == 0 || containsFold(a.AudienceScope, string(role)) {
			out = append(out, a)
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"announcements": out})
}

// GET /admin/users?role=&status=
func (h *AdminHandler) ListUsers(c echo.Context) error {
	tx := database.DB.Model(&models.User{}).Order("created_at DESC")
	if role := strings.TrimSpace(c.QueryParam("role")); role != "" {
		tx = tx.Where("role = ?", strings.ToUpper(role))
	}
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		tx = tx.Where("status = ?", strings.ToUpper(status))
	}

	var users []models.User
	if err := tx.Find(&users).Error; err != nil {
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not list users")
	}

	out := make([]map[string]any, 0, len(users))
	for _, u := range users {
		item := publicUser(u)
		item["status"] = u.Status
		item["createdAt"] = u.CreatedAt
		out = append(out, item)
	}
	return c.JSON(http.StatusOK, map[string]any{"users": out})
}

// PUT /admin/users/:userId/status — เปลี่ยนสถานะบัญชี + ลง audit log
func (h *AdminHandler) UpdateUserStatus(c echo.Context) error {
	uid, _ := currentUser(c)

	userID, ok := parseID(c.Param("userId"))
	if !ok {
		return jsonError(c, http.StatusNotFound, "NOT_FOUND", "user not found")
	}

	var req struct {
		Status string `json:"status" validate:"required,oneof=ACTIVE INACTIVE SUSPENDED"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "cannot parse request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	var user models.User
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound
			}
			return err
		}
		user.Status = req.Status
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.AuditLog{
			ActorID:    uid,
			Action:     models.AuditUpdateUserStatus,
			EntityType: "User",
			EntityID:   c.Param("userId"),
			Payload:    map[string]any{"status": req.Status},
		}).Error
	})

	switch {
	case errors.Is(err, errNotFound):
		return jsonError(c, http.StatusNotFound, "NOT_FOUND", "user not found")
	case err != nil:
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not update user")
	}

	out := publicUser(user)
	out["status"] = user.Status
	return c.JSON(http.StatusOK, map[string]any{"user": out})
}
