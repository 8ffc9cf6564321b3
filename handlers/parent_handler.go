package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taejun-song/study-room-system/database"
	"github.com/taejun-song/study-room-system/models"
)

type ParentHandler struct{}

func NewParentHandler() *ParentHandler { return &ParentHandler{} }

// GET /parent/children — ลูกที่ผูกกับผู้ปกครองคนนี้
func (h *ParentHandler) Children(c echo.Context) error {
	uid, _ := currentUser(c)

	var links []models.ParentLink
	if err := database.DB.Where("parent_id = ?", uid).Find(&links).Error; err != nil {
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not list children")
	}

	children := make([]map[string]any, 0, len(links))
	for _, l := range links {
		var student models.User
		if err := database.DB.First(&student, "id = ?", l.StudentID).Error; err != nil {
			continue
		}
		children = append(children, map[string]any{
			"id":    student.ID,
			"name":  student.Name,
			"email": student.Email,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"children": children})
}
