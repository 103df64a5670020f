package controller

import (
	"errors"
	"io"
	"net/http"

	"quiz_portal_backend/internal/service"
	"quiz_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProxyController struct {
	Service *service.ProxyService
}

func NewProxyController(s *service.ProxyService) *ProxyController {
	return &ProxyController{Service: s}
}

// @Summary 转发请求到后端
// @Description Forwards the request to the upstream quiz backend at NEXT_PUBLIC_API_BASE_URL + path and normalizes the answer
// @Tags proxy
// @Accept json
// @Produce json
// @Param path query string true "Upstream path, URL-encoded"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/proxy [get]
// @Router /api/proxy [post]
// @Router /api/proxy [put]
// @Router /api/proxy [patch]
// @Router /api/proxy [delete]
func (c *ProxyController) Forward(ctx *gin.Context) {
	var body []byte
	if ctx.Request.Body != nil {
		limited := http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.Service.MaxBodyBytes())
		b, err := io.ReadAll(limited)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
				return
			}
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
			return
		}
		body = b
	}

	result := c.Service.Forward(ctx.Request.Context(), service.ProxyRequest{
		Method:    ctx.Request.Method,
		Path:      ctx.Query("path"),
		Body:      body,
		RequestID: ctx.GetString(util.ContextRequestID),
	})

	switch {
	case result.Raw != nil:
		if result.NoStore {
			ctx.Header("Cache-Control", "no-store")
		}
		ctx.Data(result.Status, "application/json", result.Raw)
	case result.Body != nil:
		ctx.JSON(result.Status, result.Body)
	default:
		ctx.Status(result.Status)
	}
}
