package util

import (
	"errors"
	"net/http"
	"quiz_portal_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// StatusCoder is implemented by errors that carry their own HTTP status.
type StatusCoder interface {
	HTTPStatusCode() int
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

// HandleError maps domain and upstream errors onto the response envelope.
func HandleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrAnswerNotFound):
		Error(c, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, ErrReadOnlySource):
		Error(c, http.StatusMethodNotAllowed, err.Error())
		return
	case errors.Is(err, ErrInvalidCredentials):
		Error(c, http.StatusUnauthorized, err.Error())
		return
	case errors.Is(err, ErrAuthDisabled):
		Error(c, http.StatusBadRequest, err.Error())
		return
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		status := sc.HTTPStatusCode()
		if status >= 500 {
			logger.Log.Warn("upstream failure", zap.Int("status", status), zap.Error(err))
			Error(c, http.StatusBadGateway, err.Error())
			return
		}
		Error(c, status, err.Error())
		return
	}

	logger.Log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	Error(c, http.StatusBadGateway, ErrUpstreamDown.Error())
}
