// Package router wires the HTTP routes.
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/N1njakeks/echomind/internal/echomind/handler"
	"github.com/N1njakeks/echomind/internal/pkg/httputils"
	"github.com/N1njakeks/echomind/pkg/utils/errors"
)

// New builds the gin engine with all routes registered.
func New(chatHandler *handler.ChatHandler, noteHandler *handler.NoteHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	// Wrong method on a known path is 405, not 404.
	engine.HandleMethodNotAllowed = true
	engine.NoMethod(func(c *gin.Context) {
		httputils.WriteError(c, errors.ErrMethodNotAllowed)
	})
	engine.NoRoute(func(c *gin.Context) {
		httputils.WriteError(c, errors.ErrNotFound)
	})

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/v1")
	{
		v1.POST("/chat", chatHandler.Chat)

		v1.POST("/notes", noteHandler.Save)
		v1.GET("/notes", noteHandler.List)
		v1.DELETE("/notes/:id", noteHandler.Delete)
		v1.PATCH("/notes/:id/read", noteHandler.SetRead)

		v1.GET("/stats", noteHandler.Stats)
	}

	return engine
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Infow("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds())
	}
}
