package response

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

// Page describes one slice of a list result.
type Page struct {
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Envelope is the shape of every JSON response.
type Envelope struct {
	Ok    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Meta  *Page      `json:"meta,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

// PageParams reads ?page and ?page_size, falling back to 1 and 10 on
// missing or non-positive values.
func PageParams(c *gin.Context) (page, pageSize int) {
	return positiveQuery(c, "page", defaultPage), positiveQuery(c, "page_size", defaultPageSize)
}

func positiveQuery(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// Paginate cuts one page out of an in-memory list.
func Paginate[T any](items []T, page, pageSize int) ([]T, *Page) {
	n := len(items)
	start := min((page-1)*pageSize, n)
	end := min(start+pageSize, n)
	return items[start:end], &Page{
		Total:      int64(n),
		TotalPages: (n + pageSize - 1) / pageSize,
		Page:       page,
		PageSize:   pageSize,
	}
}

func Success(c *gin.Context, status int, data any, meta *Page) {
	c.JSON(status, Envelope{Ok: true, Data: data, Meta: meta})
}

func Error(c *gin.Context, status int, code, message string, details any) {
	c.JSON(status, Envelope{Error: &errorBody{Code: code, Message: message, Details: details}})
}

// Attachment writes body as a file download.
func Attachment(c *gin.Context, filename, contentType string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, body)
}
