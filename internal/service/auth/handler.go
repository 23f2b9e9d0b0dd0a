package auth

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	svcErr "github.com/dkurbatov/datingapp-backend/internal/errors"
)

type handler struct {
	svc *Service
}

// telegramAuthRequest mirrors the payload the Telegram Mini App sends.
type telegramAuthRequest struct {
	TelegramID   int64  `json:"telegram_id" binding:"required"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	LanguageCode string `json:"language_code"`
	IsPremium    bool   `json:"is_premium"`
}

type authResult struct {
	Success    bool   `json:"success"`
	UserID     uint64 `json:"user_id"`
	TelegramID int64  `json:"telegram_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Username   string `json:"username"`
	IsNewUser  bool   `json:"is_new_user"`
	Message    string `json:"message"`
}

type userInfo struct {
	UserID       uint64 `json:"user_id"`
	TelegramID   int64  `json:"telegram_id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	LanguageCode string `json:"language_code"`
	IsPremium    bool   `json:"is_premium"`
	IsActive     bool   `json:"is_active"`
}

func (h *handler) authenticate(c *gin.Context) {
	var req telegramAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.JSON(c, svcErr.InvalidArgument("telegram_id is required"))
		return
	}

	result, err := h.svc.Authenticate(c.Request.Context(), Claim{
		TelegramID:   req.TelegramID,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		LanguageCode: req.LanguageCode,
		Premium:      req.IsPremium,
	})
	if err != nil {
		svcErr.JSON(c, err)
		return
	}

	message := "User logged in successfully"
	if result.IsNewUser {
		message = "New user registered successfully"
	}

	c.JSON(http.StatusOK, authResult{
		Success:    true,
		UserID:     result.User.ID,
		TelegramID: result.User.TelegramID,
		FirstName:  result.User.FirstName,
		LastName:   result.User.LastName,
		Username:   result.User.Username,
		IsNewUser:  result.IsNewUser,
		Message:    message,
	})
}

func (h *handler) me(c *gin.Context) {
	telegramID, ok := telegramIDQuery(c)
	if !ok {
		return
	}

	user, err := h.svc.Get(c.Request.Context(), telegramID)
	if err != nil {
		svcErr.JSON(c, err)
		return
	}

	c.JSON(http.StatusOK, userInfo{
		UserID:       user.ID,
		TelegramID:   user.TelegramID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		LanguageCode: user.LanguageCode,
		IsPremium:    user.Premium,
		IsActive:     user.Active,
	})
}

func (h *handler) deleteMe(c *gin.Context) {
	telegramID, ok := telegramIDQuery(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), telegramID); err != nil {
		svcErr.JSON(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "User account deleted successfully",
		"telegram_id": telegramID,
	})
}

// telegramIDQuery parses the telegram_id query parameter, writing a 422 on
// failure.
func telegramIDQuery(c *gin.Context) (int64, bool) {
	raw := c.Query("telegram_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		svcErr.JSON(c, svcErr.InvalidArgument("telegram_id must be a positive integer"))
		return 0, false
	}
	return id, true
}
