package handler

import (
	"errors"
	"net/http"

	apperrors "dev-event-hub/pkg/app_errors"

	"github.com/gin-gonic/gin"
)

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request format",
			"error":   err.Error(),
		})
		return err
	}
	return nil
}

// BindForm 綁定 multipart / urlencoded 表單
func BindForm(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBind(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid form data",
			"error":   err.Error(),
		})
		return err
	}
	return nil
}

// statusOf 把 app_errors 對應到 HTTP 狀態碼；對外訊息只在 4xx 時透出原始錯誤
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidDateFormat),
		errors.Is(err, apperrors.ErrInvalidTimeFormat),
		errors.Is(err, apperrors.ErrInvalidEmailFormat),
		errors.Is(err, apperrors.ErrInvalidTitle),
		errors.Is(err, apperrors.ErrInvalidMode),
		errors.Is(err, apperrors.ErrInvalidImage),
		errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrDanglingReference),
		errors.Is(err, apperrors.ErrEventNotFound),
		errors.Is(err, apperrors.ErrBookingNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, apperrors.ErrDuplicateSlug):
		return http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, "Service temporarily unavailable"
	default:
		return http.StatusInternalServerError, apperrors.ErrInternalServerError.Error()
	}
}
