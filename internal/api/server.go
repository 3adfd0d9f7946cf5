package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/accounting-dashboard-api/internal/api/handler"
	"github.com/vfg2006/accounting-dashboard-api/internal/api/handler/router"
	"github.com/vfg2006/accounting-dashboard-api/internal/config"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/accessing"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/clients"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/dashboard"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/documents"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/uploading"
	"github.com/vfg2006/accounting-dashboard-api/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

// Services reúne os casos de uso expostos pela API
type Services struct {
	Gate       accessing.Gate
	Clients    clients.ClientService
	Uploads    uploading.Uploader
	Dashboards dashboard.DashboardService
	Documents  documents.DocumentService
	Cleanup    handler.CleanupJob
	Registry   handler.Pinger // nil com cadastro em arquivo
}

type Server struct {
	httpServer *http.Server
}

// NewHandler monta o roteador com todas as rotas e middlewares globais
func NewHandler(cfg *config.Config, services Services) http.Handler {
	// valores monetários saem como números no JSON
	decimal.MarshalJSONWithoutQuotes = true

	maxBytes := cfg.Storage.MaxUploadBytes

	rt := router.New(
		router.WithRoutes(handler.Healthcheck(services.Registry)...),
		router.WithRoutes(handler.ClientArea(services.Gate, services.Dashboards, services.Documents)...),
		router.WithRoutes(handler.Clients(services.Gate, services.Clients)...),
		router.WithRoutes(handler.Spreadsheets(services.Gate, services.Uploads, maxBytes)...),
		router.WithRoutes(handler.Documents(services.Gate, services.Documents, maxBytes)...),
		router.WithRoutes(handler.Benchmark(services.Gate, services.Dashboards)...),
		router.WithRoutes(handler.Jobs(services.Gate, services.Cleanup)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(cfg.App.AllowedOrigins),
	}

	return alice.New(middlewares...).Then(rt)
}

func New(cfg *config.Config, services Services) (*Server, error) {
	if services.Gate == nil {
		return nil, fmt.Errorf("controle de acesso não configurado")
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
			Handler:           NewHandler(cfg, services),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logrus.WithField("timeout", shutdownTimeout.String()).Info("Iniciando desligamento gracioso do servidor")

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}
