package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/car-advisor/internal/common"
	"github.com/suPer8Hu/car-advisor/internal/httpapi/handlers"
	"github.com/suPer8Hu/car-advisor/internal/httpapi/middleware"
)

// NewRouter mounts the API. metricsHandler may be nil.
func NewRouter(h *handlers.Handler, tokens middleware.TokenParser, metricsHandler http.Handler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.GET("/ping", h.Ping)
	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	v1 := r.Group("/api/v1")
	v1.GET("/options", h.Options)
	v1.POST("/valuations", h.CreateValuation)
	v1.POST("/recommendations", h.Recommend)
	v1.POST("/sessions", h.CreateSession)

	// session token required
	sess := v1.Group("/")
	sess.Use(middleware.SessionRequired(tokens))
	sess.DELETE("/sessions", h.EndSession)
	sess.GET("/sessions/panel", h.GetPanel)
	sess.PUT("/sessions/panel", h.UpdatePanel)
	sess.POST("/chat/messages", h.SendChatMessage)
	sess.GET("/chat/messages", h.ListChatMessages)
	sess.POST("/chat/messages/async", h.SendChatMessageAsync)
	sess.GET("/chat/jobs/:job_id", h.GetChatJob)

	return r
}
