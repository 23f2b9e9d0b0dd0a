package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/dkurbatov/datingapp-backend/internal/app"
)

// Registrar ties the auth service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the auth service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the auth routes to the engine
func (r *Registrar) Register(e *gin.Engine) {
	h := &handler{svc: NewService(r.appCtx)}

	grp := e.Group("/auth")
	grp.POST("/telegram", h.authenticate)
	grp.GET("/me", h.me)
	grp.DELETE("/me", h.deleteMe)
}
