// Package httpserver manages server creation and api routing.
package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/authorizer/internal/authorizer"
	"github.com/go-petr/authorizer/internal/middleware"
	"github.com/go-petr/authorizer/internal/operationdelivery"
	"github.com/go-petr/authorizer/pkg/configpkg"
)

// Server holds the authorizer, handlers router and configuration.
type Server struct {
	Authorizer *authorizer.Authorizer
	Engine     *gin.Engine
	Config     configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type serving the given authorizer.
func New(a *authorizer.Authorizer, logger zerolog.Logger, config configpkg.Config) *Server {
	operationHandler := operationdelivery.NewHandler(a)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/operations", operationHandler.Create)
	engine.GET("/account", operationHandler.GetAccount)

	return &Server{
		Authorizer: a,
		Engine:     engine,
		Config:     config,
	}
}
