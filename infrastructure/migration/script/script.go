// Importa o cadastro de clientes em JSON (REGISTRY_FILE) para a tabela clients
// do PostgreSQL configurado em DATABASE_*. Clientes já existentes são
// atualizados com o nome e a situação do arquivo.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/vfg2006/accounting-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/accounting-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/accounting-dashboard-api/internal/config"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
)

func setupLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	logrus.Info("Iniciando importação do cadastro de clientes...")
}

// importClients grava os clientes dentro da transação e devolve sucessos e erros
func importClients(ctx context.Context, tx *sql.Tx, clients []*domain.Client) (int, int) {
	target := repository.NewClientPostgresRepository(tx)

	successCount := 0
	errorCount := 0

	for i, client := range clients {
		if err := target.SaveOrUpdate(ctx, client); err != nil {
			logrus.WithError(err).WithField("client_code", client.Code).
				Errorf("ERRO ao importar cliente [%d/%d]", i+1, len(clients))
			errorCount++
			continue
		}
		successCount++

		if i > 0 && i%10 == 0 {
			logrus.Infof("Progresso: %d/%d clientes processados", i+1, len(clients))
		}
	}

	return successCount, errorCount
}

func main() {
	setupLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	ctx := context.Background()

	source := repository.NewClientJSONRepository(afero.NewOsFs(), cfg.Registry.File)
	clients, err := source.ListClients(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("ERRO ao ler cadastro em JSON")
	}
	logrus.WithField("registry_file", cfg.Registry.File).Infof("%d clientes encontrados no cadastro JSON", len(clients))

	logrus.Info("Conectando ao banco de dados...")
	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("ERRO ao conectar ao PostgreSQL")
	}
	defer conn.Close()

	if err := repository.EnsureClientSchema(ctx, conn); err != nil {
		logrus.WithError(err).Fatal("ERRO ao criar tabela de clientes")
	}

	startTime := time.Now()
	var successCount, errorCount int

	err = conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		successCount, errorCount = importClients(ctx, tx, clients)
		if errorCount > 0 {
			return fmt.Errorf("%d clientes com erro, importação desfeita", errorCount)
		}
		return nil
	})
	if err != nil {
		logrus.WithError(err).Fatal("ERRO na transação de importação")
	}

	logrus.WithFields(logrus.Fields{
		"duration": time.Since(startTime).String(),
		"success":  successCount,
		"errors":   errorCount,
	}).Info("Importação de clientes concluída")
}
