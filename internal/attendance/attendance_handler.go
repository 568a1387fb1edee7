package attendance

import (
	"net/http"
	"strings"

	attendanceerrors "platoon-pulse/internal/attendance/errors"
	"platoon-pulse/internal/shared/apperror"
	"platoon-pulse/internal/shared/identity"
	"platoon-pulse/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, logger: l}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) MarkEntry(c *gin.Context) {
	resp, err := h.service.MarkEntry(c.Request.Context(), identity.FromGin(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MarkExit(c *gin.Context) {
	resp, err := h.service.MarkExit(c.Request.Context(), identity.FromGin(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ManualMark(c *gin.Context) {
	var req ManualMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapped := apperror.MapValidationError(err)
		response.Error(c, mapped.HTTPStatus, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.ManualMark(c.Request.Context(), identity.FromGin(c), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListBySession(c *gin.Context) {
	resp, err := h.service.ListBySession(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	page, pageSize := response.PageParams(c)
	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, meta)
}

func (h *Handler) GetMyHistory(c *gin.Context) {
	resp, err := h.service.GetMyHistory(c.Request.Context(), identity.FromGin(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetCadetHistory(c *gin.Context) {
	resp, err := h.service.GetCadetHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), identity.FromGin(c), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Attendance record deleted.", nil)
}

func (h *Handler) GetReport(c *gin.Context) {
	rep, err := h.service.BuildSessionReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rep, nil)
}

// DownloadReport serves ?format=txt (default) or ?format=pdf.
func (h *Handler) DownloadReport(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "txt"))
	if format != "txt" && format != "pdf" {
		writeServiceError(c, attendanceerrors.ErrInvalidReportFormat)
		return
	}

	rep, err := h.service.BuildSessionReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if format == "pdf" {
		response.Attachment(c, ReportFileName(rep, "pdf"), "application/pdf", RenderPDF(rep))
		return
	}
	response.Attachment(c, ReportFileName(rep, "txt"), "text/plain; charset=utf-8", RenderText(rep))
}
