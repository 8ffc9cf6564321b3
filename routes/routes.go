package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/taejun-song/study-room-system/config"
	"github.com/taejun-song/study-room-system/handlers"
	"github.com/taejun-song/study-room-system/middlewares"
	"github.com/taejun-song/study-room-system/models"
)

// Register wires all HTTP routes.
func Register(e *echo.Echo, cfg *config.Config) {
	// ===== Handlers (shared singletons) =====
	auth := handlers.NewAuthHandler(cfg)
	att := handlers.NewAttendanceHandler()
	abs := handlers.NewAbsenceHandler()
	qa := handlers.NewQAHandler(cfg)
	ana := handlers.NewAnalyticsHandler()
	msg := handlers.NewMessageHandler()
	adm := handlers.NewAdminHandler()
	par := handlers.NewParentHandler()

	e.GET("/health", handlers.Health)

	// ===== Public Auth =====
	e.POST("/api/auth/signup", auth.Signup)
	e.POST("/api/auth/login", auth.Login)
	e.POST("/api/auth/refresh", auth.Refresh)

	authMW := middlewares.RequireAuth(cfg.JWTSecret)

	// ===== Attendance (เข้า-ออกห้องอ่านหนังสือ) =====
	a := e.Group("/api/attendance", authMW)
	a.POST("/checkin", att.Checkin, middlewares.RequireRole(models.RoleStudent))
	a.POST("/checkout", att.Checkout, middlewares.RequireRole(models.RoleStudent))
	a.GET("/calendar", att.Calendar)
	a.PUT("/session/:id", att.EditSession, middlewares.RequireRole(models.RoleAdmin))

	// ===== Absence (ใบลา — นักเรียนยื่น, ติวเตอร์+ผู้ปกครองตัดสิน) =====
	ab := e.Group("/api/absence", authMW)
	ab.POST("", abs.Create, middlewares.RequireRole(models.RoleStudent))
	ab.GET("", abs.List)
	ab.POST("/:id/approve", abs.Approve, middlewares.RequireRole(models.RoleMentor, models.RoleParent))
	ab.POST("/:id/reject", abs.Reject, middlewares.RequireRole(models.RoleMentor, models.RoleParent))

	// ===== Q&A Booking =====
	q := e.Group("/api/qa", authMW)
	q.GET("/mentors", qa.Mentors)
	q.POST("/book", qa.Book, middlewares.RequireRole(models.RoleStudent))
	q.POST("/:id/accept", qa.Accept, middlewares.RequireRole(models.RoleMentor))
	q.POST("/:id/answer", qa.Answer, middlewares.RequireRole(models.RoleMentor))
	q.GET("/history", qa.History)

	// ===== Analytics =====
	an := e.Group("/api/analytics", authMW)
	an.GET("/ranks/study", ana.StudyRankings)
	an.POST("/examscore", ana.SubmitExamScore, middlewares.RequireRole(models.RoleStudent))
	an.GET("/ranks/exam", ana.ExamRankings)
	an.GET("/stats", ana.StudentStats)
	an.POST("/pomodoro", ana.LogPomodoro, middlewares.RequireRole(models.RoleStudent))

	// ===== Messages =====
	m := e.Group("/api/messages", authMW)
	m.POST("/thread", msg.CreateThread)
	m.GET("", msg.GetThreads)
	m.POST("/:threadId", msg.SendMessage)
	m.GET("/:threadId", msg.GetMessages)

	// ===== Admin =====
	ad := e.Group("/api/admin", authMW, middlewares.RequireRole(models.RoleAdmin))
	ad.POST("/joincode", adm.CreateJoinCode)
	ad.GET("/joincode", adm.ListJoinCodes)
	ad.POST("/link-parent", adm.LinkParentStudent)
	ad.POST("/assign-mentor", adm.AssignMentor)
	ad.GET("/students/:studentId/assignments", adm.StudentAssignments)
	ad.POST("/announcement", adm.CreateAnnouncement)
	ad.GET("/users", adm.ListUsers)
	ad.PUT("/users/:userId/status", adm.UpdateUserStatus)

	// ประกาศอ่านได้ทุก role ที่ล็อกอิน
	e.GET("/api/admin/announcement", adm.ListAnnouncements, authMW)

	// ===== Parent =====
	p := e.Group("/api/parent", authMW, middlewares.RequireRole(models.RoleParent))
	p.GET("/children", par.Children)
}
