// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/wallet-ledger/internal/accountdelivery"
	"github.com/go-petr/wallet-ledger/internal/accountrepo"
	"github.com/go-petr/wallet-ledger/internal/accountservice"
	"github.com/go-petr/wallet-ledger/internal/events"
	eventskafka "github.com/go-petr/wallet-ledger/internal/events/kafka"
	"github.com/go-petr/wallet-ledger/internal/ledgerdelivery"
	"github.com/go-petr/wallet-ledger/internal/ledgerrepo"
	"github.com/go-petr/wallet-ledger/internal/ledgerservice"
	"github.com/go-petr/wallet-ledger/internal/middleware"
	"github.com/go-petr/wallet-ledger/internal/txnrepo"
	"github.com/go-petr/wallet-ledger/pkg/configpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	accountRepo := accountrepo.NewRepoPGS(conn)
	transactionRepo := txnrepo.NewRepoPGS(conn)
	ledgerRepo := ledgerrepo.NewRepoPGS(conn)

	var publisher events.Publisher = events.Nop{}
	if config.KafkaBrokers != "" {
		publisher = eventskafka.NewPublisher(strings.Split(config.KafkaBrokers, ","), config.KafkaTopic)
	}

	accountService := accountservice.New(accountRepo)
	ledgerService := ledgerservice.New(accountRepo, transactionRepo, ledgerRepo, publisher, config.StorageTimeout)

	accountHandler := accountdelivery.NewHandler(accountService)
	ledgerHandler := ledgerdelivery.NewHandler(ledgerService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	routes := engine.Group("/")
	if config.APIToken != "" {
		routes.Use(middleware.Guard(config.APIToken))
	}

	routes.POST("/accounts", accountHandler.Create)
	routes.GET("/accounts", accountHandler.List)
	routes.GET("/accounts/:id", accountHandler.Get)
	routes.GET("/accounts/:id/balance", accountHandler.GetBalance)
	routes.GET("/accounts/:id/transactions", ledgerHandler.ListTransactions)

	routes.POST("/topup", ledgerHandler.TopUp)
	routes.POST("/charge", ledgerHandler.Charge)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("amount", ledgerdelivery.ValidAmount)
		if err != nil {
			return nil, errors.New("cannot register amount validator")
		}
	}

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
