package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taejun-song/study-room-system/models"
)

type absenceResp struct {
	Request models.AbsenceRequest `json:"request"`
}

func submitAbsence(t *testing.T, e *echo.Echo, h *AbsenceHandler, studentID uint) models.AbsenceRequest {
	t.Helper()
	body := map[string]any{
		"date":       "2024-03-01",
		"type":       "ABSENT",
		"reasonText": "doctor",
	}
	c, rec := newCtx(t, e, http.MethodPost, "/api/absence", body, studentID, models.RoleStudent)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp absenceResp
	decodeBody(t, rec, &resp)
	return resp.Request
}

func decideAbsence(t *testing.T, e *echo.Echo, h *AbsenceHandler, reqID uint, uid uint, role models.Role, approve bool, comment string) *httptest.ResponseRecorder {
	t.Helper()
	action, fn := "approve", h.Approve
	if !approve {
		action, fn = "reject", h.Reject
	}
	c, rec := newCtx(t, e, http.MethodPost, "/api/absence/1/"+action,
		map[string]any{"comment": comment}, uid, role)
	c.SetParamNames("id")
	c.SetParamValues(itoa(reqID))
	require.NoError(t, fn(c))
	return rec
}

func itoa(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}

func TestAbsenceCreateValidation(t *testing.T) {
	setupDB(t)
	e := echo.New()
	h := NewAbsenceHandler()
	student := createTestUser(t, "student", models.RoleStudent, models.UserActive)

	// type ไม่รู้จัก
	c, rec := newCtx(t, e, http.MethodPost, "/api/absence",
		map[string]any{"date": "2024-03-01", "type": "SICK", "reasonText": "x"},
		student.ID, models.RoleStudent)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errCode(t, rec))

	// reason ว่าง
	c, rec = newCtx(t, e, http.MethodPost, "/api/absence",
		map[string]any{"date": "2024-03-01", "type": "ABSENT", "reasonText": "   "},
		student.ID, models.RoleStudent)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// วันที่ผิดรูปแบบ
	c, rec = newCtx(t, e, http.MethodPost, "/api/absence",
		map[string]any{"date": "03/01/2024", "type": "ABSENT", "reasonText": "x"},
		student.ID, models.RoleStudent)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAbsenceDualApprovalFlow(t *testing.T) {
	setupDB(t)
	e := echo.New()
	h := NewAbsenceHandler()

	student := createTestUser(t, "student", models.RoleStudent, models.UserActive)
	mentor := createTestUser(t, "mentor", models.RoleMentor, models.UserActive)
	parent := createTestUser(t, "parent", models.RoleParent, models.UserActive)
	assignMentor(t, mentor.ID, student.ID)
	linkParent(t, parent.ID, student.ID)

	req := submitAbsence(t, e, h, student.ID)
	assert.Equal(t, models.AbsencePending, req.Status)
	assert.Equal(t, models.DecisionPending, req.MentorDecision)
	assert.Equal(t, models.DecisionPending, req.ParentDecision)
	assert.Nil(t, req.DecidedAt)

	// ติวเตอร์อนุมัติก่อน → PARTIAL, ยังไม่ terminal
	rec := decideAbsence(t, e, h, req.ID, mentor.ID, models.RoleMentor, true, "ok")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp absenceResp
	decodeBody(t, rec, &resp)
	assert.Equal(t, models.AbsencePartial, resp.Request.Status)
	assert.Equal(t, models.DecisionApproved, resp.Request.MentorDecision)
	assert.Equal(t, models.DecisionPending, resp.Request.ParentDecision)
	assert.Equal(t, "ok", resp.Request.MentorComment)
	assert.Nil(t, resp.Request.DecidedAt)

	// ผู้ปกครองอนุมัติตาม → APPROVED + decidedAt
	rec = decideAbsence(t, e, h, req.ID, parent.ID, models.RoleParent, true, "fine")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &resp)
	assert.Equal(t, models.AbsenceApproved, resp.Request.Status)
	assert.NotNil(t, resp.Request.DecidedAt)

	// terminal แล้ว ตัดสินซ้ำ → 409
	rec = decideAbsence(t, e, h, req.ID, mentor.ID, models.RoleMentor, false, "late call")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_DECIDED", errCode(t, rec))
}

func TestAbsenceRejectShortCircuits(t *testing.T) {
	setupDB(t)
	e := echo.New()
	h := NewAbsenceHandler()

	student := createTestUser(t, "student", models.RoleStudent, models.UserActive)
	mentor := createTestUser(t, "mentor", models.RoleMentor, models.UserActive)
	parent := createTestUser(t, "parent", models.RoleParent, models.UserActive)
	assignMentor(t, mentor.ID, student.ID)
	linkParent(t, parent.ID, student.ID)

	req := submitAbsence(t, e, h, student.ID)

	// ฝั่งหนึ่งอนุมัติแล้ว อีกฝั่ง reject → REJECTED ไม่ใช่ PARTIAL/APPROVED
	rec := decideAbsence(t, e, h, req.ID, mentor.ID, models.RoleMentor, true, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = decideAbsence(t, e, h, req.ID, parent.ID, models.RoleParent, false, "no")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp absenceResp
	decodeBody(t, rec, &resp)
	assert.Equal(t, models.AbsenceRejected, resp.Request.Status)
	assert.Equal(t, models.DecisionApproved, resp.Request.MentorDecision)
	assert.Equal(t, models.DecisionRejected, resp.Request.ParentDecision)
	assert.Equal(t, "no", resp.Request.ParentComment)
	assert.NotNil(t, resp.Request.DecidedAt)
}

func TestAbsenceRedecideBeforeTerminal(t *testing.T) {
	setupDB(t)
	e := echo.New()
	h := NewAbsenceHandler()

	student := createTestUser(t, "student", models.RoleStudent, models.UserActive)
	mentor := createTestUser(t, "mentor", models.RoleMentor, models.UserActive)
	assignMentor(t, mentor.ID, student.ID)

	req := submitAbsence(t, e, h, student.ID)

	// ติวเตอร์อนุมัติแล้วเปลี่ยนใจ reject ได้ ตราบใดที่สถานะรวมยังไม่ terminal... reject = terminal เลย
	rec := decideAbsence(t, e, h, req.ID, mentor.ID, models.RoleMentor, true, "v1")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = decideAbsence(t, e, h, req.ID, mentor.ID, models.RoleMentor, true, "v2")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp absenceResp
	decodeBody(t, rec, &resp)
	assert.Equal(t, "v2", resp.Request.MentorComment)
	assert.Equal(t, models.AbsencePartial, resp.Request.Status)
}

func TestAbsenceDecideAuthorization(t *testing.T) {
	setupDB(t)
	e := echo.New()
	h := NewAbsenceHandler()

	student := createTestUser(t, "student", models.RoleStudent, models.UserActive)
	assigned := createTestUser(t, "assigned", models.RoleMentor, models.UserActive)
	stranger := createTestUser(t, "stranger", models.RoleMentor, models.UserActive)
	unlinked := createTestUser(t, "unlinked", models.RoleParent, models.UserActive)
	assignMentor(t, assigned.ID, student.ID)

	req := submitAbsence(t, e, h, student.ID)

	// ติวเตอร์ที่ไม่ได้ถูก assign → 403
	rec := decideAbsence(t, e, h, req.ID, stranger.ID, models.RoleMentor, true, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", errCode(t, rec))

	// ผู้ปกครองที่ไม่มี link → 403
	rec = decideAbsence(t, e, h, req.ID, unlinked.ID, models.RoleParent, true, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// role อื่น → 403
	rec = decideAbsence(t, e, h, req.ID, student.ID, models.RoleStudent, true, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// ติวเตอร์ที่ถูก assign → ผ่าน
	rec = decideAbsence(t, e, h, req.ID, assigned.ID, models.RoleMentor, true, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// คำขอที่ไม่มีจริง → 404
	rec = decideAbsence(t, e, h, 9999, assigned.ID, models.RoleMentor, true, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAbsenceListScoping(t *testing.T) {
	setupDB(t)
	e := echo.New()
	h := NewAbsenceHandler()

	alice := createTestUser(t, "alice", models.RoleStudent, models.UserActive)
	bob := createTestUser(t, "bob", models.RoleStudent, models.UserActive)
	parent := createTestUser(t, "parent", models.RoleParent, models.UserActive)
	admin := createTestUser(t, "admin", models.RoleAdmin, models.UserActive)
	linkParent(t, parent.ID, alice.ID)

	submitAbsence(t, e, h, alice.ID)
	submitAbsence(t, e, h, bob.ID)

	type listResp struct {
		Requests []models.AbsenceRequest `json:"requests"`
	}

	// นักเรียนเห็นของตัวเองเท่านั้น
	c, rec := newCtx(t, e, http.MethodGet, "/api/absence", nil, alice.ID, models.RoleStudent)
	require.NoError(t, h.List(c))
	var resp listResp
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Requests, 1)
	assert.Equal(t, alice.ID, resp.Requests[0].StudentID)

	// ผู้ปกครองเห็นลูกที่ผูกไว้
	c, rec = newCtx(t, e, http.MethodGet, "/api/absence", nil, parent.ID, models.RoleParent)
	require.NoError(t, h.List(c))
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Requests, 1)
	assert.Equal(t, alice.ID, resp.Requests[0].StudentID)

	// ผู้ปกครองขอดูนักเรียนที่ไม่ได้ผูก → 403
	c, rec = newCtx(t, e, http.MethodGet, "/api/absence?studentId="+itoa(bob.ID), nil, parent.ID, models.RoleParent)
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// admin เห็นทั้งหมด
	c, rec = newCtx(t, e, http.MethodGet, "/api/absence", nil, admin.ID, models.RoleAdmin)
	require.NoError(t, h.List(c))
	decodeBody(t, rec, &resp)
	assert.Len(t, resp.Requests, 2)
}
