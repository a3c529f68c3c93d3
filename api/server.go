package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/adaudit/adaudit-backend/usecases"
	"github.com/adaudit/adaudit-backend/utils"
)

type Configuration struct {
	Env     string
	Port    string
	Timeout time.Duration
}

func (conf Configuration) IsDevEnv() bool {
	return conf.Env == "development"
}

func NewServer(uc usecases.Usecases, conf Configuration, logger *slog.Logger) *http.Server {
	if !conf.IsDevEnv() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "DELETE"},
		AllowHeaders:    []string{"Content-Type", actorIdHeader},
		MaxAge:          12 * time.Hour,
	}))
	r.Use(utils.StoreLoggerInContextMiddleware(logger))
	r.Use(loggingMiddleware(logger))
	r.Use(credentialsMiddleware())

	addRoutes(r, uc)

	// h2c lets grpc-style clients and proxies speak http/2 without TLS
	// termination in the service itself.
	return &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%s", conf.Port),
		WriteTimeout: conf.Timeout,
		ReadTimeout:  conf.Timeout,
		IdleTimeout:  60 * time.Second,
		Handler:      h2c.NewHandler(r, &http2.Server{}),
	}
}
