package handler

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/accounting-dashboard-api/internal/scheduler"
	"github.com/vfg2006/accounting-dashboard-api/pkg/apiErrors"
)

// CleanupJob é a tarefa de limpeza de uploads pendentes
type CleanupJob interface {
	TriggerManualRun() error
	GetStatus() map[string]any
}

func RunStagingCleanup(job CleanupJob) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunStagingCleanup")

		if err := job.TriggerManualRun(); err != nil {
			if errors.Is(err, scheduler.ErrJobAlreadyRunning) {
				apiErrors.WriteError(w, apiErrors.ErrJobAlreadyRunning, "Limpeza já em execução", nil)
				return
			}
			logrus.WithError(err).Error("Erro ao iniciar limpeza manual")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao iniciar limpeza", nil)
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Limpeza iniciada com sucesso",
			"job":     "staging-cleanup",
		})
	})
}

func JobsStatus(job CleanupJob) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"staging-cleanup": job.GetStatus(),
		})
	})
}
