package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/dashboard"
	"github.com/vfg2006/accounting-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/accounting-dashboard-api/pkg/middleware"
)

// GetDashboard devolve o painel do cliente autorizado por ?cliente=
func GetDashboard(service dashboard.DashboardService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client, ok := middleware.ClientFromContext(r.Context())
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrUnauthorized, "Cliente não identificado", nil)
			return
		}

		period := periodRangeQuery(r)

		result, err := service.Dashboard(r.Context(), client.Code, period)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"client_code": client.Code,
				"period":      period.From.String() + ".." + period.To.String(),
			}).Warn("Erro ao calcular painel")
			writeUsecaseError(w, err, "Erro ao calcular painel")
			return
		}

		writeJSON(w, http.StatusOK, result)
	})
}

func GetBenchmark(service dashboard.DashboardService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetBenchmark")

		result, err := service.Benchmark(r.Context())
		if err != nil {
			writeUsecaseError(w, err, "Erro ao montar comparativo")
			return
		}

		writeJSON(w, http.StatusOK, result)
	})
}
