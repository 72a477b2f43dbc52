package http

import (
	"alertflow/alerting/http/middleware"
	"alertflow/alerting/manager"
	"alertflow/internal/config"
	"alertflow/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const PREFIX = "/api/v1"

// Server is the query/command API over the alert manager.
type Server struct {
	*gin.Engine
	logger  *log.Logger
	listen  string
	manager *manager.Manager
	tokener *TokenService
}

type ServerConfig struct {
	Listen  string
	Manager *manager.Manager
	JWT     config.JWTConfig
	// Operators allowed to call the mutating endpoints.
	Operators []config.OperatorConfig
}

// NewServer creates a new server
func NewServer(cfg *ServerConfig) *Server {
	gin.SetMode(gin.ReleaseMode)
	e := gin.Default()
	s := &Server{
		Engine:  e,
		logger:  log.NewLogger(log.Loglevel, "alert-api"),
		listen:  cfg.Listen,
		manager: cfg.Manager,
		tokener: NewTokenService(cfg.JWT, cfg.Operators),
	}
	s.initRoute()

	return s
}

func (s *Server) initRoute() {
	s.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	s.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.POST(PREFIX+"/login", s.login())

	// The webhook is the trusted producer callback and stays open; every
	// read endpoint is open as well. Mutations require an operator token.
	s.POST(PREFIX+"/alerts/webhook", s.ingestWebhook())
	s.GET(PREFIX+"/alerts/active", s.listActive())
	s.GET(PREFIX+"/alerts/history", s.listHistory())
	s.GET(PREFIX+"/alerts/stats", s.alertStats())

	auth := middleware.Auth(s.tokener)
	s.POST(PREFIX+"/alerts/:alert_id/silence", auth, s.silenceAlert())
	s.POST(PREFIX+"/alerts/:alert_id/resolve", auth, s.resolveAlert())
	s.GET(PREFIX+"/alerts/silences", auth, s.listSilences())
	s.DELETE(PREFIX+"/alerts/silences/:id", auth, s.deleteSilence())
}

func (s *Server) Start() error {
	s.logger.Infof("alert api listening on %s", s.listen)
	return s.Run(s.listen)
}
