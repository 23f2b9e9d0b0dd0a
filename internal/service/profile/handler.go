package profile

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dkurbatov/datingapp-backend/internal/db"
	svcErr "github.com/dkurbatov/datingapp-backend/internal/errors"
)

type handler struct {
	svc *Service
}

type profileRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	Age         int    `json:"age" binding:"required"`
	Bio         string `json:"bio"`
	City        string `json:"city"`
	Interests   string `json:"interests"`
	Gender      string `json:"gender"`
	LookingFor  string `json:"looking_for"`
	MinAge      int    `json:"min_age"`
	MaxAge      int    `json:"max_age"`
	IsVisible   *bool  `json:"is_visible"`
	IsComplete  bool   `json:"is_complete"`
}

type photoRequest struct {
	URL          string `json:"url" binding:"required"`
	IsPrimary    bool   `json:"is_primary"`
	DisplayOrder int    `json:"display_order"`
}

type photoResponse struct {
	ID           uint64 `json:"id"`
	URL          string `json:"url"`
	IsPrimary    bool   `json:"is_primary"`
	DisplayOrder int    `json:"display_order"`
}

type profileResponse struct {
	ID          uint64          `json:"id"`
	UserID      uint64          `json:"user_id"`
	DisplayName string          `json:"display_name"`
	Age         int             `json:"age"`
	Bio         string          `json:"bio"`
	City        string          `json:"city"`
	Interests   string          `json:"interests"`
	Gender      string          `json:"gender"`
	LookingFor  string          `json:"looking_for"`
	MinAge      int             `json:"min_age"`
	MaxAge      int             `json:"max_age"`
	IsVisible   bool            `json:"is_visible"`
	IsComplete  bool            `json:"is_complete"`
	Photos      []photoResponse `json:"photos"`
}

func (h *handler) save(c *gin.Context) {
	telegramID, ok := telegramIDQuery(c)
	if !ok {
		return
	}

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.JSON(c, svcErr.InvalidArgument("display_name and age are required"))
		return
	}

	in := Input{
		DisplayName: req.DisplayName,
		Age:         req.Age,
		Bio:         req.Bio,
		City:        req.City,
		Interests:   req.Interests,
		Gender:      req.Gender,
		LookingFor:  req.LookingFor,
		MinAge:      req.MinAge,
		MaxAge:      req.MaxAge,
		Visible:     true,
		Complete:    req.IsComplete,
	}
	if in.MinAge == 0 {
		in.MinAge = 18
	}
	if in.MaxAge == 0 {
		in.MaxAge = 99
	}
	if req.IsVisible != nil {
		in.Visible = *req.IsVisible
	}

	profile, err := h.svc.Save(c.Request.Context(), telegramID, in)
	if err != nil {
		svcErr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(profile))
}

func (h *handler) get(c *gin.Context) {
	telegramID, ok := telegramIDQuery(c)
	if !ok {
		return
	}

	profile, err := h.svc.Get(c.Request.Context(), telegramID)
	if err != nil {
		svcErr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(profile))
}

func (h *handler) addPhoto(c *gin.Context) {
	telegramID, ok := telegramIDQuery(c)
	if !ok {
		return
	}

	var req photoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.JSON(c, svcErr.InvalidArgument("url is required"))
		return
	}

	photo, err := h.svc.AddPhoto(c.Request.Context(), telegramID, PhotoInput{
		URL:          req.URL,
		IsPrimary:    req.IsPrimary,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		svcErr.JSON(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPhotoResponse(*photo))
}

func (h *handler) setPrimaryPhoto(c *gin.Context) {
	telegramID, ok := telegramIDQuery(c)
	if !ok {
		return
	}
	photoID, ok := photoIDParam(c)
	if !ok {
		return
	}

	if err := h.svc.SetPrimaryPhoto(c.Request.Context(), telegramID, photoID); err != nil {
		svcErr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *handler) deletePhoto(c *gin.Context) {
	telegramID, ok := telegramIDQuery(c)
	if !ok {
		return
	}
	photoID, ok := photoIDParam(c)
	if !ok {
		return
	}

	if err := h.svc.DeletePhoto(c.Request.Context(), telegramID, photoID); err != nil {
		svcErr.JSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func toProfileResponse(p *db.Profile) profileResponse {
	resp := profileResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		Age:         p.Age,
		Bio:         p.Bio,
		City:        p.City,
		Interests:   p.Interests,
		Gender:      p.Gender,
		LookingFor:  p.LookingFor,
		MinAge:      p.MinAge,
		MaxAge:      p.MaxAge,
		IsVisible:   p.Visible,
		IsComplete:  p.Complete,
		Photos:      make([]photoResponse, 0, len(p.Photos)),
	}
	for _, photo := range p.Photos {
		resp.Photos = append(resp.Photos, toPhotoResponse(photo))
	}
	return resp
}

func toPhotoResponse(p db.Photo) photoResponse {
	return photoResponse{
		ID:           p.ID,
		URL:          p.URL,
		IsPrimary:    p.Primary,
		DisplayOrder: p.DisplayOrder,
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

func photoIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("photo_id"), 10, 64)
	if err != nil || id == 0 {
		svcErr.JSON(c, svcErr.InvalidArgument("photo_id must be a positive integer"))
		return 0, false
	}
	return id, true
}
