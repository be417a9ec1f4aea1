package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/KevinKickass/StormBridge/internal/api/websocket"
	"github.com/KevinKickass/StormBridge/internal/config"
	"github.com/KevinKickass/StormBridge/internal/interfaces"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	lm     interfaces.LifecycleManager
	logger *zap.Logger
	server *http.Server
	wsHub  *websocket.Hub
}

func NewServer(cfg *config.Config, lm interfaces.LifecycleManager, logger *zap.Logger, wsHub *websocket.Hub) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router: gin.New(),
		lm:     lm,
		logger: logger,
		wsHub:  wsHub,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Server.HTTPAddr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the listener synchronously and serves in the background.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.logger.Info("Starting REST API server", zap.String("address", lis.Addr().String()))

	go func() {
		if err := s.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("REST server failed", zap.Error(err))
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down REST API server")
	return s.server.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Middleware
	s.router.Use(gin.Recovery())
	s.router.Use(LoggerMiddleware(s.logger))
	s.router.Use(CORSMiddleware())

	// Wire exchange and listener control
	s.router.GET("/", s.exchange)
	s.router.GET("/shutdown", s.shutdown)
	s.router.POST("/shutdown", s.shutdown)

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(s.lm.Metrics().Handler()))

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/system/status", s.getSystemStatus)

		ch := v1.Group("/channels")
		{
			ch.GET("", s.listChannels)
			ch.GET("/:role/:name", s.getChannel)
			ch.PUT("/:role/:name", s.setChannel)
		}

		sn := v1.Group("/sensors")
		{
			sn.GET("", s.listSensors)
			sn.GET("/:name", s.getSensor)
		}

		ws := v1.Group("/ws")
		{
			ws.GET("/live", s.wsLiveConnection)
			ws.GET("/status", s.wsStatus)
		}
	}
}

// WebSocket handlers
func (s *Server) wsLiveConnection(c *gin.Context) {
	websocket.ServeWs(s.wsHub, c.Writer, c.Request)
}

func (s *Server) wsStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"connected_clients": s.wsHub.GetClientCount(),
	})
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}
