package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/taejun-song/study-room-system/database"
	"github.com/taejun-song/study-room-system/models"
)

type MessageHandler struct{}

func NewMessageHandler() *MessageHandler { return &MessageHandler{} }

// POST /messages/thread — คืนเธรดเดิมถ้ามี ไม่มีก็สร้างใหม่ (1 เธรดต่อผู้ใช้)
func (h *MessageHandler) CreateThread(c echo.Context) error {
	uid, _ := currentUser(c)

	var thread models.MessageThread
	err := database.DB.Where("user_id = ?", uid).First(&thread).Error
	if err == nil {
		return c.JSON(http.StatusOK, map[string]any{"thread": thread})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not load thread")
	}

	thread = models.MessageThread{UserID: uid}
	if err := database.DB.Create(&thread).Error; err != nil {
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not create thread")
	}
	return c.JSON(http.StatusCreated, map[string]any{"thread": thread})
}

// เจ้าของเธรดหรือ admin เท่านั้น
func canAccessThread(thread models.MessageThread, uid uint, role models.Role) bool {
	return thread.UserID == uid || role == models.RoleAdmin
}

// POST /messages/:threadId
func (h *MessageHandler) SendMessage(c echo.Context) error {
	uid, role := currentUser(c)

	threadID, ok := parseID(c.Param("threadId"))
	if !ok {
		return jsonError(c, http.StatusNotFound, "NOT_FOUND", "thread not found")
	}

	var req struct {
		Text        string   `json:"text" validate:"required"`
		Attachments []string `json:"attachments"`
		Category    string   `json:"category"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "cannot parse request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	var thread models.MessageThread
	if err := database.DB.First(&thread, "id = ?", threadID).Error; err != nil {
		return jsonError(c, http.StatusNotFound, "NOT_FOUND", "thread not found")
	}
	if !canAccessThread(thread, uid, role) {
		return jsonError(c, http.StatusForbidden, "FORBIDDEN", "not authorized for this thread")
	}

	msg := models.Message{
		ThreadID:    threadID,
		SenderID:    uid,
		Text:        req.Text,
		Attachments: req.Attachments,
		Category:    req.Category,
	}
	if err := database.DB.Create(&msg).Error; err != nil {
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not send message")
	}
	return c.JSON(http.StatusCreated, map[string]any{"message": msg})
}

// GET /messages/:threadId?limit=
func (h *MessageHandler) GetMessages(c echo.Context) error {
	uid, role := currentUser(c)

	threadID, ok := parseID(c.Param("threadId"))
	if !ok {
		return jsonError(c, http.StatusNotFound, "NOT_FOUND", "thread not found")
	}

	var thread models.MessageThread
	if err := database.DB.First(&thread, "id = ?", threadID).Error; err != nil {
		return jsonError(c, http.StatusNotFound, "NOT_FOUND", "thread not found")
	}
	if !canAccessThread(thread, uid, role) {
		return jsonError(c, http.StatusForbidden, "FORBIDDEN", "not authorized for this thread")
	}

	limit := atoiOr(c.QueryParam("limit"), 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var msgs []models.Message
	if err := database.DB.
		Where("thread_id = ?", threadID).
		Order("created_at ASC").Limit(limit).
		Find(&msgs).Error; err != nil {
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not load messages")
	}
	return c.JSON(http.StatusOK, map[string]any{"messages": msgs})
}

// GET /messages — ผู้ใช้เห็นเธรดตัวเอง; admin เห็นทุกเธรด + ข้อความล่าสุด
func (h *MessageHandler) GetThreads(c echo.Context) error {
	uid, role := currentUser(c)

	tx := database.DB.Model(&models.MessageThread{}).Order("created_at DESC")
	if role != models.RoleAdmin {
		tx = tx.Where("user_id = ?", uid)
	}

	var threads []models.MessageThread
	if err := tx.Find(&threads).Error; err != nil {
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not load threads")
	}

	out := make([]map[string]any, 0, len(threads))
	for _, t := range threads {
		item := map[string]any{"id": t.ID, "userId": t.UserID, "createdAt": t.CreatedAt}
		var last models.Message
		if err := database.DB.
			Where("thread_id = ?", t.ID).
			Order("created_at DESC").
			First(&last).Error; err == nil {
			item["lastMessage"] = last
		}
		out = append(out, item)
	}
	return c.JSON(http.StatusOK, map[string]any{"threads": out})
}
