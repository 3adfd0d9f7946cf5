package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Pinger é uma dependência externa verificada pelo healthcheck
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Status   string `json:"status"`
	Registry string `json:"registry"`
	Time     string `json:"time"`
}

// HealthcheckHandler responde 503 quando o cadastro em banco não responde.
// Com cadastro em arquivo, registry é nil e não há o que verificar.
func HealthcheckHandler(registry Pinger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := healthResponse{
			Status:   "ok",
			Registry: "file",
			Time:     time.Now().UTC().Format(time.RFC3339),
		}

		if registry == nil {
			writeJSON(w, http.StatusOK, response)
			return
		}

		if err := registry.Ping(r.Context()); err != nil {
			logrus.WithError(err).Warn("Cadastro de clientes indisponível")
			response.Status = "degraded"
			response.Registry = "unavailable"
			writeJSON(w, http.StatusServiceUnavailable, response)
			return
		}

		response.Registry = "ok"
		writeJSON(w, http.StatusOK, response)
	})
}
