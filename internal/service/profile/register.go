package profile

import (
	"github.com/gin-gonic/gin"

	"github.com/dkurbatov/datingapp-backend/internal/app"
)

// Registrar ties the profile service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the profile service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the profile routes to the engine
func (r *Registrar) Register(e *gin.Engine) {
	h := &handler{svc: NewService(r.appCtx)}

	grp := e.Group("/profiles/me")
	grp.PUT("", h.save)
	grp.GET("", h.get)
	grp.POST("/photos", h.addPhoto)
	grp.PUT("/photos/:photo_id/primary", h.setPrimaryPhoto)
	grp.DELETE("/photos/:photo_id", h.deletePhoto)
}
