package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/taejun-song/study-room-system/config"
	"github.com/taejun-song/study-room-system/database"
	"github.com/taejun-song/study-room-system/models"
)

type AuthHandler struct {
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		JWTSecret:  cfg.JWTSecret,
		AccessTTL:  cfg.JWTAccessTTL,
		RefreshTTL: cfg.JWTRefreshTTL,
	}
}

func (h *AuthHandler) signJWT(sub uint, role models.Role, name string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  sub,
		"role": string(role),
		"name": name,
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tk.SignedString([]byte(h.JWTSecret))
}

/* ====================== DTOs ====================== */

type SignupReq struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
	JoinCode string `json:"joinCode" validate:"required"`
}

type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshReq struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func publicUser(u models.User) map[string]any {
	return map[string]any{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"phone": u.Phone,
		"role":  u.Role,
	}
}

/* ====================== Handlers ====================== */

// POST /auth/signup — สมัครด้วย join code ที่ admin ออกให้ (ผูก role)
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "cannot parse request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}
	role, ok := models.ParseRole(req.Role)
	if !ok {
		return jsonError(c, http.StatusBadRequest, "VALIDATION_ERROR", "unknown role")
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))

	var user models.User
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var code models.JoinCode
		if err := database.LockForUpdate(tx).
			Where("code = ?", strings.ToUpper(strings.TrimSpace(req.JoinCode))).
			First(&code).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound
			}
			return err
		}
		if code.RoleScope != role || !code.Usable(time.Now()) {
			return errForbidden
		}

		// ตรวจซ้ำ email/phone
		dup := tx.Where("email = ?", email)
		if req.Phone != "" {
			dup = tx.Where("email = ? OR phone = ?", email, req.Phone)
		}
		var existing models.User
		if err := dup.First(&existing).Error; err == nil {
			return errConflict
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user = models.User{
			Name:         strings.TrimSpace(req.Name),
			Phone:        strings.TrimSpace(req.Phone),
			Email:        email,
			PasswordHash: string(hash),
			Role:         role,
			Status:       models.UserActive,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		// ติวเตอร์ได้โปรไฟล์เปล่าไว้เติมทีหลัง
		if role == models.RoleMentor {
			if err := tx.Create(&models.MentorProfile{UserID: user.ID, Subjects: []string{}}).Error; err != nil {
				return err
			}
		}

		return tx.Model(&code).UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error
	})

	switch {
	case errors.Is(err, errNotFound):
		return jsonError(c, http.StatusBadRequest, "INVALID_JOIN_CODE", "invalid join code")
	case errors.Is(err, errForbidden):
		return jsonError(c, http.StatusBadRequest, "JOIN_CODE_UNUSABLE", "join code expired, used up, or wrong role")
	case errors.Is(err, errConflict):
		return jsonError(c, http.StatusConflict, "USER_EXISTS", "user already exists")
	case err != nil:
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, "INTERNAL", "could not sign up")
	}

	access, err := h.signJWT(user.ID, user.Role, user.Name, h.AccessTTL)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "TOKEN_GEN_FAILED", "could not issue token")
	}
	refresh, err := h.signJWT(user.ID, user.Role, user.Name, h.RefreshTTL)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "TOKEN_GEN_FAILED", "could not issue token")
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"user":         publicUser(user),
		"accessToken":  access,
		"refreshToken": refresh,
	})
}

// POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "cannot parse request body")
	}
	if err := validate.Struct(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	var user models.User
	if err := database.DB.
		Where("email = ?", strings.TrimSpace(strings.ToLower(req.Email))).
		First(&user).Error; err != nil {
		return jsonError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials")
	}
	if user.Status != models.UserActive {
		return jsonError(c, http.StatusForbidden, "ACCOUNT_INACTIVE", "account is not active")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return jsonError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials")
	}

	access, err := h.signJWT(user.ID, user.Role, user.Name, h.AccessTTL)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "TOKEN_GEN_FAILED", "could not issue token")
	}
	refresh, err := h.signJWT(user.ID, user.Role, user.Name, h.RefreshTTL)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "TOKEN_GEN_FAILED", "could not issue token")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"user":         publicUser(user),
		"accessToken":  access,
		"refreshToken": refresh,
	})
}

// POST /auth/refresh
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "cannot parse request body")
	}
	if req.RefreshToken == "" {
		return jsonError(c, http.StatusBadRequest, "VALIDATION_ERROR", "refreshToken is required")
	}

	var claims struct {
		Sub uint `json:"sub"`
		jwt.RegisteredClaims
	}
	token, err := jwt.ParseWithClaims(req.RefreshToken, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(h.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return jsonError(c, http.StatusUnauthorized, "INVALID_TOKEN", "invalid refresh token")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", claims.Sub).Error; err != nil || user.Status != models.UserActive {
		return jsonError(c, http.StatusUnauthorized, "INVALID_TOKEN", "invalid refresh token")
	}

	access, err := h.signJWT(user.ID, user.Role, user.Name, h.AccessTTL)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "TOKEN_GEN_FAILED", "could not issue token")
	}
	refresh, err := h.signJWT(user.ID, user.Role, user.Name, h.RefreshTTL)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "TOKEN_GEN_FAILED", "could not issue token")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"accessToken":  access,
		"refreshToken": refresh,
	})
}
