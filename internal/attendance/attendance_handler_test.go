package attendance_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"platoon-pulse/internal/attendance"
	attendanceerrors "platoon-pulse/internal/attendance/errors"
	"platoon-pulse/internal/shared/identity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type fakeService struct {
	MarkEntryFn       func(ctx context.Context, actor identity.Actor, sessionID string) (attendance.RecordResponse, error)
	MarkExitFn        func(ctx context.Context, actor identity.Actor, sessionID string) (attendance.RecordResponse, error)
	ManualMarkFn      func(ctx context.Context, actor identity.Actor, sessionID string, req attendance.ManualMarkRequest) (attendance.RecordResponse, error)
	GetMyHistoryFn    func(ctx context.Context, actor identity.Actor) (attendance.HistoryResponse, error)
	GetCadetHistoryFn func(ctx context.Context, cadetID string) (attendance.HistoryResponse, error)
	ListBySessionFn   func(ctx context.Context, sessionID string) ([]attendance.RecordResponse, error)
	DeleteFn          func(ctx context.Context, actor identity.Actor, id string) error
	ReportFn          func(ctx context.Context, sessionID string) (attendance.Report, error)
}

func (f *fakeService) UpsertEntryOrExit(context.Context, string, string, string, attendance.MarkKind, datatypes.Time) (attendance.RecordResponse, error) {
	return attendance.RecordResponse{}, nil
}
func (f *fakeService) MarkEntry(ctx context.Context, actor identity.Actor, sessionID string) (attendance.RecordResponse, error) {
	return f.MarkEntryFn(ctx, actor, sessionID)
}
func (f *fakeService) MarkExit(ctx context.Context, actor identity.Actor, sessionID string) (attendance.RecordResponse, error) {
	return f.MarkExitFn(ctx, actor, sessionID)
}
func (f *fakeService) ManualMark(ctx context.Context, actor identity.Actor, sessionID string, req attendance.ManualMarkRequest) (attendance.RecordResponse, error) {
	return f.ManualMarkFn(ctx, actor, sessionID, req)
}
func (f *fakeService) GetMyHistory(ctx context.Context, actor identity.Actor) (attendance.HistoryResponse, error) {
	return f.GetMyHistoryFn(ctx, actor)
}
func (f *fakeService) GetCadetHistory(ctx context.Context, cadetID string) (attendance.HistoryResponse, error) {
	return f.GetCadetHistoryFn(ctx, cadetID)
}
func (f *fakeService) ListBySession(ctx context.Context, sessionID string) ([]attendance.RecordResponse, error) {
	return f.ListBySessionFn(ctx, sessionID)
}
func (f *fakeService) Delete(ctx context.Context, actor identity.Actor, id string) error {
	return f.DeleteFn(ctx, actor, id)
}
func (f *fakeService) BuildSessionReport(ctx context.Context, sessionID string) (attendance.Report, error) {
	return f.ReportFn(ctx, sessionID)
}

func newRouter(svc attendance.Service, actor identity.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := attendance.NewHandler(svc, zap.NewNop())
	r := gin.New()
	r.Use(func(c *gin.Context) {
		identity.Set(c, actor)
		c.Next()
	})
	r.POST("/sessions/:id/attendance/entry", h.MarkEntry)
	r.POST("/sessions/:id/attendance/exit", h.MarkExit)
	r.PUT("/sessions/:id/attendance", h.ManualMark)
	r.GET("/sessions/:id/attendance", h.ListBySession)
	r.GET("/sessions/:id/report", h.GetReport)
	r.GET("/sessions/:id/report/download", h.DownloadReport)
	r.GET("/attendance/me", h.GetMyHistory)
	r.GET("/cadets/:id/attendance", h.GetCadetHistory)
	r.DELETE("/attendance/:id", h.Delete)
	return r
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_MarkEntry(t *testing.T) {
	svc := &fakeService{MarkEntryFn: func(_ context.Context, actor identity.Actor, sid string) (attendance.RecordResponse, error) {
		assert.Equal(t, cadetUser.CadetID, actor.CadetID)
		assert.Equal(t, "s1", sid)
		entry := "09:00"
		return attendance.RecordResponse{ID: "r1", EntryTime: &entry, AttendanceStatus: "absent"}, nil
	}}

	w := serve(newRouter(svc, cadetUser), http.MethodPost, "/sessions/s1/attendance/entry", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"entry_time":"09:00"`)
}

func TestHandler_MarkExit(t *testing.T) {
	svc := &fakeService{MarkExitFn: func(context.Context, identity.Actor, string) (attendance.RecordResponse, error) {
		return attendance.RecordResponse{}, attendanceerrors.ErrSessionNotFound
	}}

	w := serve(newRouter(svc, cadetUser), http.MethodPost, "/sessions/s1/attendance/exit", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_ManualMark(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeService{ManualMarkFn: func(_ context.Context, _ identity.Actor, _ string, req attendance.ManualMarkRequest) (attendance.RecordResponse, error) {
			assert.Equal(t, "09:00", req.EntryTime)
			return attendance.RecordResponse{AttendanceStatus: "present", AttendancePercentage: 100}, nil
		}}

		w := serve(newRouter(svc, admin), http.MethodPut, "/sessions/s1/attendance",
			`{"cadet_id":"`+cadetID.String()+`","entry_time":"09:00","exit_time":"11:00"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"attendance_status":"present"`)
	})

	t.Run("missing exit time", func(t *testing.T) {
		w := serve(newRouter(&fakeService{}, admin), http.MethodPut, "/sessions/s1/attendance", `{"entry_time":"09:00"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("time range rejected", func(t *testing.T) {
		svc := &fakeService{ManualMarkFn: func(context.Context, identity.Actor, string, attendance.ManualMarkRequest) (attendance.RecordResponse, error) {
			return attendance.RecordResponse{}, attendanceerrors.ErrInvalidTimeRange
		}}

		w := serve(newRouter(svc, admin), http.MethodPut, "/sessions/s1/attendance", `{"entry_time":"10:00","exit_time":"09:00"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Entry time must be before exit time")
	})

	t.Run("cadet marking another", func(t *testing.T) {
		svc := &fakeService{ManualMarkFn: func(context.Context, identity.Actor, string, attendance.ManualMarkRequest) (attendance.RecordResponse, error) {
			return attendance.RecordResponse{}, attendanceerrors.ErrNotOwnRecord
		}}

		w := serve(newRouter(svc, cadetUser), http.MethodPut, "/sessions/s1/attendance", `{"entry_time":"09:00","exit_time":"10:00"}`)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestHandler_ListBySession(t *testing.T) {
	svc := &fakeService{ListBySessionFn: func(context.Context, string) ([]attendance.RecordResponse, error) {
		return []attendance.RecordResponse{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nil
	}}

	w := serve(newRouter(svc, admin), http.MethodGet, "/sessions/s1/attendance?page=1&page_size=2", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":3`)
	assert.NotContains(t, w.Body.String(), `"id":"c"`)
}

func TestHandler_History(t *testing.T) {
	svc := &fakeService{
		GetMyHistoryFn: func(context.Context, identity.Actor) (attendance.HistoryResponse, error) {
			return attendance.HistoryResponse{Summary: attendance.HistorySummary{Present: 1, Total: 1}}, nil
		},
		GetCadetHistoryFn: func(_ context.Context, id string) (attendance.HistoryResponse, error) {
			assert.Equal(t, "c1", id)
			return attendance.HistoryResponse{}, attendanceerrors.ErrInvalidID
		},
	}
	r := newRouter(svc, cadetUser)

	w := serve(r, http.MethodGet, "/attendance/me", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"present":1`)

	w = serve(r, http.MethodGet, "/cadets/c1/attendance", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Delete(t *testing.T) {
	svc := &fakeService{DeleteFn: func(_ context.Context, actor identity.Actor, id string) error {
		assert.Equal(t, admin.UserID, actor.UserID)
		if id == "gone" {
			return attendanceerrors.ErrRecordNotFound
		}
		return nil
	}}
	r := newRouter(svc, admin)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodDelete, "/attendance/r1", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodDelete, "/attendance/gone", "").Code)
}

func TestHandler_Report(t *testing.T) {
	rep := attendance.Report{
		Title:      "Night March",
		Date:       "2024-03-02",
		Summary:    attendance.ReportSummary{Present: 2, LeaveEarly: 1, Absent: 1, Total: 4},
		Present:    []attendance.ReportLine{},
		LeaveEarly: []attendance.ReportLine{},
		Absent:     []attendance.ReportLine{},
	}
	svc := &fakeService{ReportFn: func(context.Context, string) (attendance.Report, error) { return rep, nil }}
	r := newRouter(svc, admin)

	t.Run("json", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/sessions/s1/report", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total":4`)
	})

	t.Run("text download", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/sessions/s1/report/download", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `attachment; filename="attendance-report-2024-03-02-Night-March.txt"`, w.Header().Get("Content-Disposition"))
		assert.Contains(t, w.Body.String(), "Leave Early: 1")
	})

	t.Run("pdf download", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/sessions/s1/report/download?format=pdf", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-1.4"))
	})

	t.Run("unknown format", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/sessions/s1/report/download?format=xlsx", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		svc := &fakeService{ReportFn: func(context.Context, string) (attendance.Report, error) {
			return attendance.Report{}, attendanceerrors.ErrSessionNotFound
		}}
		w := serve(newRouter(svc, admin), http.MethodGet, "/sessions/s1/report", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
