package social

import (
	"github.com/gin-gonic/gin"

	"github.com/dkurbatov/datingapp-backend/internal/app"
)

// Registrar ties the social service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the social service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the like/match routes to the engine
func (r *Registrar) Register(e *gin.Engine) {
	h := &handler{svc: NewService(r.appCtx)}

	e.POST("/likes", h.putLike)
	e.DELETE("/likes/:liked_user_id", h.retractLike)
	e.GET("/likes/received/count", h.likesReceivedCount)
	e.GET("/matches", h.matches)
}
