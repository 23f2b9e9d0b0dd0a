package social

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dkurbatov/datingapp-backend/internal/db"
	svcErr "github.com/dkurbatov/datingapp-backend/internal/errors"
)

const defaultMatchesPageSize = 20

type handler struct {
	svc *Service
}

type likeRequest struct {
	LikedUserID uint64 `json:"liked_user_id" binding:"required"`
	LikeType    string `json:"like_type" binding:"required"`
}

type likeResponse struct {
	ID       uint64  `json:"id"`
	LikerID  uint64  `json:"liker_id"`
	LikedID  uint64  `json:"liked_id"`
	LikeType string  `json:"like_type"`
	IsActive bool    `json:"is_active"`
	MatchID  *uint64 `json:"match_id,omitempty"`
}

type matchResponse struct {
	ID        uint64 `json:"id"`
	User1ID   uint64 `json:"user1_id"`
	User2ID   uint64 `json:"user2_id"`
	IsActive  bool   `json:"is_active"`
	MatchedAt int64  `json:"matched_at"`
}

func (h *handler) putLike(c *gin.Context) {
	telegramID, ok := telegramIDQuery(c)
	if !ok {
		return
	}

	var req likeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.JSON(c, svcErr.InvalidArgument("liked_user_id and like_type are required"))
		return
	}

	outcome, err := h.svc.PutLike(c.Request.Context(), telegramID, req.LikedUserID, req.LikeType)
	if err != nil {
		svcErr.JSON(c, err)
		return
	}

	resp := gin.H{
		"is_match": outcome.Match != nil,
		"like":     toLikeResponse(outcome.Like),
	}
	if outcome.Match != nil {
		resp["match"] = toMatchResponse(*outcome.Match)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) retractLike(c *gin.Context) {
	telegramID, ok := telegramIDQuery(c)
	if !ok {
		return
	}
	likedUserID, err := strconv.ParseUint(c.Param("liked_user_id"), 10, 64)
	if err != nil || likedUserID == 0 {
		svcErr.JSON(c, svcErr.InvalidArgument("liked_user_id must be a positive integer"))
		return
	}

	if err := h.svc.RetractLike(c.Request.Context(), telegramID, likedUserID); err != nil {
		svcErr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *handler) matches(c *gin.Context) {
	telegramID, ok := telegramIDQuery(c)
	if !ok {
		return
	}

	var token *string
	if v := c.Query("pagination_token"); v != "" {
		token = &v
	}

	matches, nextToken, err := h.svc.Matches(c.Request.Context(), telegramID, token, defaultMatchesPageSize)
	if err != nil {
		svcErr.JSON(c, err)
		return
	}

	out := make([]matchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, toMatchResponse(m))
	}
	resp := gin.H{"matches": out}
	if nextToken != nil {
		resp["next_pagination_token"] = *nextToken
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) likesReceivedCount(c *gin.Context) {
	telegramID, ok := telegramIDQuery(c)
	if !ok {
		return
	}

	count, err := h.svc.LikesReceivedCount(c.Request.Context(), telegramID)
	if err != nil {
		svcErr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func toLikeResponse(l *db.Like) likeResponse {
	return likeResponse{
		ID:       l.ID,
		LikerID:  l.LikerID,
		LikedID:  l.LikedID,
		LikeType: l.LikeType,
		IsActive: l.Active,
		MatchID:  l.MatchID,
	}
}

func toMatchResponse(m db.Match) matchResponse {
	return matchResponse{
		ID:        m.ID,
		User1ID:   m.User1ID,
		User2ID:   m.User2ID,
		IsActive:  m.Active,
		MatchedAt: m.MatchedAt.Unix(),
	}
}

func telegramIDQuery(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Query("telegram_id"), 10, 64)
	if err != nil || id <= 0 {
		svcErr.JSON(c, svcErr.InvalidArgument("telegram_id must be a positive integer"))
		return 0, false
	}
	return id, true
}
