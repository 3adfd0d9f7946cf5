// Package scheduler contém os serviços agendados da API
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/accounting-dashboard-api/internal/config"
)

var ErrJobAlreadyRunning = errors.New("limpeza de uploads pendentes já em execução")

// StagedPurger apaga uploads não confirmados anteriores a cutoff
type StagedPurger interface {
	PurgeStaged(cutoff time.Time) (int, error)
}

type StagingCleanupConfig struct {
	CronSchedule string
	Enabled      bool
	TTL          time.Duration
}

type StagingCleanupService struct {
	scheduler             *gocron.Scheduler
	files                 StagedPurger
	config                StagingCleanupConfig
	now                   func() time.Time
	running               bool
	mutex                 sync.Mutex
	lastRunStartedAt      time.Time
	lastRunCompletedAt    time.Time
	lastRunRemovedUploads int
}

func NewStagingCleanupService(files StagedPurger, cfg *config.Config) *StagingCleanupService {
	cleanupConfig := StagingCleanupConfig{
		CronSchedule: cfg.StagingCleanup.CronSchedule,
		Enabled:      cfg.StagingCleanup.Enabled,
		TTL:          cfg.Storage.StagingTTL(),
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": cleanupConfig.CronSchedule,
		"enabled":       cleanupConfig.Enabled,
		"ttl":           cleanupConfig.TTL.String(),
	}).Info("Configuração da limpeza de uploads pendentes carregada")

	return &StagingCleanupService{
		scheduler: gocron.NewScheduler(time.Local),
		files:     files,
		config:    cleanupConfig,
		now:       time.Now,
	}
}

func (s *StagingCleanupService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Limpeza de uploads pendentes desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de limpeza de uploads pendentes")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if _, err := s.Run(); err != nil && !errors.Is(err, ErrJobAlreadyRunning) {
			logrus.WithError(err).Error("Erro na limpeza de uploads pendentes")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar limpeza de uploads pendentes: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de limpeza de uploads pendentes")
		s.scheduler.Stop()
	}()

	return nil
}

// Run executa a limpeza de forma síncrona e devolve quantos uploads foram apagados
func (s *StagingCleanupService) Run() (int, error) {
	s.mutex.Lock()
	if s.running {
		s.mutex.Unlock()
		return 0, ErrJobAlreadyRunning
	}
	s.running = true
	s.lastRunStartedAt = s.now()
	s.mutex.Unlock()

	defer func() {
		s.mutex.Lock()
		s.running = false
		s.lastRunCompletedAt = s.now()
		s.mutex.Unlock()
	}()

	cutoff := s.now().Add(-s.config.TTL)
	removed, err := s.files.PurgeStaged(cutoff)

	s.mutex.Lock()
	s.lastRunRemovedUploads = removed
	s.mutex.Unlock()

	if err != nil {
		return removed, err
	}

	logrus.WithFields(logrus.Fields{
		"removed": removed,
		"cutoff":  cutoff.Format(time.RFC3339),
	}).Info("Limpeza de uploads pendentes concluída")

	return removed, nil
}

// TriggerManualRun dispara a limpeza em segundo plano
func (s *StagingCleanupService) TriggerManualRun() error {
	s.mutex.Lock()
	running := s.running
	s.mutex.Unlock()

	if running {
		logrus.Info("Limpeza de uploads pendentes já em andamento, ignorando solicitação manual")
		return ErrJobAlreadyRunning
	}

	logrus.Info("Iniciando limpeza manual de uploads pendentes")
	go func() {
		if _, err := s.Run(); err != nil && !errors.Is(err, ErrJobAlreadyRunning) {
			logrus.WithError(err).Error("Erro na limpeza manual de uploads pendentes")
		}
	}()

	return nil
}

// GetStatus retorna o status atual do agendador
func (s *StagingCleanupService) GetStatus() map[string]any {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return map[string]any{
		"enabled":                  s.config.Enabled,
		"cron":                     s.config.CronSchedule,
		"ttl_minutes":              int(s.config.TTL.Minutes()),
		"running":                  s.running,
		"last_run_started_at":      s.lastRunStartedAt,
		"last_run_completed_at":    s.lastRunCompletedAt,
		"last_run_removed_uploads": s.lastRunRemovedUploads,
	}
}
