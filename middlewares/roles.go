package middlewares

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taejun-song/study-room-system/models"
)

// RequireRole(models.RoleAdmin) หรือ RequireRole(models.RoleMentor, models.RoleParent)
// → ผ่านถ้า role ของผู้ใช้ตรงอย่างน้อย 1 ค่า (role ถูก parse แล้วใน RequireAuth)
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	need := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		need[r] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(models.Role)
			if _, ok := need[role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
			}
			return next(c)
		}
	}
}
