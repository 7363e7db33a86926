package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"liftsocial/internal/apperr"
)

// respondError 把服務層的錯誤分類轉成對應的 HTTP 狀態碼
// 訊息取自分類時附帶的人類可讀文字
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrAuth):
		status = http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	}

	message := err.Error()
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	c.JSON(status, gin.H{"error": message})
}

// currentUserID 從中間件設置的上下文中取出用戶 ID
func currentUserID(c *gin.Context) uint {
	userID, _ := c.Get("userID")
	return userID.(uint)
}
