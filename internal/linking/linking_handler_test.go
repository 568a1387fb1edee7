package linking_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"platoon-pulse/internal/linking"
	linkingerrors "platoon-pulse/internal/linking/errors"
	"platoon-pulse/internal/shared/identity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	CreateFn func(ctx context.Context, actor identity.Actor, req linking.CreateLinkingRequest) (linking.LinkingResponse, error)
	RejectFn func(ctx context.Context, actor identity.Actor, id, reason string) (linking.LinkingResponse, error)
}

func (f *fakeService) Create(ctx context.Context, actor identity.Actor, req linking.CreateLinkingRequest) (linking.LinkingResponse, error) {
	return f.CreateFn(ctx, actor, req)
}
func (f *fakeService) GetAll(context.Context, string) ([]linking.LinkingResponse, error) {
	return []linking.LinkingResponse{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nil
}
func (f *fakeService) GetMine(context.Context, identity.Actor) ([]linking.LinkingResponse, error) {
	return nil, nil
}
func (f *fakeService) Approve(context.Context, identity.Actor, string) (linking.LinkingResponse, error) {
	return linking.LinkingResponse{}, linkingerrors.ErrInvalidStatusTransition
}
func (f *fakeService) Reject(ctx context.Context, actor identity.Actor, id, reason string) (linking.LinkingResponse, error) {
	return f.RejectFn(ctx, actor, id, reason)
}
func (f *fakeService) Cancel(context.Context, identity.Actor, string) (linking.LinkingResponse, error) {
	return linking.LinkingResponse{}, linkingerrors.ErrNotRequester
}

func newRouter(svc linking.Service, actor identity.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := linking.NewHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		identity.Set(c, actor)
		c.Next()
	})
	r.POST("/linking-requests", h.Create)
	r.GET("/linking-requests", h.GetAll)
	r.POST("/linking-requests/:id/approve", h.Approve)
	r.POST("/linking-requests/:id/reject", h.Reject)
	r.POST("/linking-requests/:id/cancel", h.Cancel)
	return r
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &fakeService{CreateFn: func(_ context.Context, actor identity.Actor, req linking.CreateLinkingRequest) (linking.LinkingResponse, error) {
			assert.Equal(t, requester.UserID, actor.UserID)
			assert.Equal(t, "APP-1", req.ApplicationNumber)
			return linking.LinkingResponse{ID: "r1", Status: linking.StatusPending}, nil
		}}
		w := serve(newRouter(svc, requester), http.MethodPost, "/linking-requests", `{"application_number":"APP-1"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"PENDING"`)
	})

	t.Run("missing application number", func(t *testing.T) {
		w := serve(newRouter(&fakeService{}, requester), http.MethodPost, "/linking-requests", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Application Number is required")
	})

	t.Run("conflict", func(t *testing.T) {
		svc := &fakeService{CreateFn: func(context.Context, identity.Actor, linking.CreateLinkingRequest) (linking.LinkingResponse, error) {
			return linking.LinkingResponse{}, linkingerrors.ErrCadetAlreadyLinked
		}}
		w := serve(newRouter(svc, requester), http.MethodPost, "/linking-requests", `{"application_number":"APP-1"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHandler_Review(t *testing.T) {
	r := newRouter(&fakeService{RejectFn: func(_ context.Context, _ identity.Actor, id, reason string) (linking.LinkingResponse, error) {
		return linking.LinkingResponse{ID: id, Status: linking.StatusRejected, RejectionReason: &reason}, nil
	}}, admin)

	w := serve(r, http.MethodPost, "/linking-requests/r1/approve", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = serve(r, http.MethodPost, "/linking-requests/r1/reject", `{"rejection_reason":"duplicate"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rejection_reason":"duplicate"`)

	w = serve(r, http.MethodPost, "/linking-requests/r1/reject", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPost, "/linking-requests/r1/cancel", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_GetAllPaginates(t *testing.T) {
	w := serve(newRouter(&fakeService{}, admin), http.MethodGet, "/linking-requests?page=1&page_size=2", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":3`)
}
