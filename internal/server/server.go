package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jimelj/machine-scheduler/internal/config"
	"github.com/jimelj/machine-scheduler/internal/server/handlers"
)

// Server is the HTTP server.
type Server struct {
	router   *gin.Engine
	handlers *handlers.Handlers
}

// NewServer creates the server and wires its routes.
func NewServer(cfg *config.AppConfig) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}

	s := &Server{
		router:   gin.Default(),
		handlers: handlers.NewHandlers(cfg, dataDir),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	api := s.router.Group("/api")
	{
		api.GET("/health", s.handlers.Health)
		api.POST("/schedule", s.handlers.Schedule)
		api.GET("/export/:id", s.handlers.DownloadExport)
	}

	s.router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "machine-scheduler",
			"usage":   "POST /api/schedule with a pick list file, then GET /api/export/:id",
		})
	})
}

// Run starts the server on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
