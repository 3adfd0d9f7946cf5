package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/vfg2006/accounting-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/accounting-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/accounting-dashboard-api/infrastructure/storage"
	"github.com/vfg2006/accounting-dashboard-api/internal/api"
	"github.com/vfg2006/accounting-dashboard-api/internal/api/handler"
	"github.com/vfg2006/accounting-dashboard-api/internal/config"
	"github.com/vfg2006/accounting-dashboard-api/internal/scheduler"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/accessing"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/analyzing"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/clients"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/dashboard"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/documents"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/normalizing"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/uploading"
	"github.com/vfg2006/accounting-dashboard-api/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	osFs := afero.NewOsFs()

	clientRepo, registryPinger, closeRegistry := clientRegistry(ctx, cfg, osFs)
	defer closeRegistry()

	files, err := storage.NewFileStore(osFs, cfg.Storage.DataDir)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao preparar diretório de dados")
	}

	parser := normalizing.NewNormalizer(cfg.Analysis.MaxMonths)
	policy := analyzing.ParseRangePolicy(cfg.Analysis.OnInvertedRange)

	dashboardService := dashboard.NewService(clientRepo, files, parser, policy)

	services := api.Services{
		Gate:       accessing.NewService(clientRepo, cfg.Access.AdminCode),
		Clients:    clients.NewService(clientRepo, files, cfg),
		Uploads:    uploading.NewService(clientRepo, files, parser, cfg.Storage.MaxUploadBytes),
		Dashboards: dashboardService,
		Documents:  documents.NewService(clientRepo, files, dashboardService, cfg.Storage.MaxUploadBytes),
		Registry:   registryPinger,
	}

	cleanupService := scheduler.NewStagingCleanupService(files, cfg)
	if err := cleanupService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de limpeza de uploads pendentes")
	} else {
		logrus.Info("Agendador de limpeza de uploads pendentes iniciado com sucesso")
	}
	services.Cleanup = cleanupService

	server, err := api.New(cfg, services)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// clientRegistry escolhe o cadastro de clientes conforme REGISTRY_DRIVER.
// O Pinger só existe com cadastro em banco.
func clientRegistry(ctx context.Context, cfg *config.Config, fs afero.Fs) (repository.ClientRepository, handler.Pinger, func()) {
	if cfg.Registry.Driver != config.RegistryDriverPostgres {
		logrus.WithField("registry_file", cfg.Registry.File).Info("Usando cadastro de clientes em JSON")
		return repository.NewClientJSONRepository(fs, cfg.Registry.File), nil, func() {}
	}

	conn := pgconn(ctx, cfg.Database)
	if err := repository.EnsureClientSchema(ctx, conn); err != nil {
		logrus.WithError(err).Fatal("Erro ao criar tabela de clientes")
	}

	return repository.NewClientPostgresRepository(conn), conn, func() { conn.Close() }
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
