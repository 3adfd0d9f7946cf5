package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/accessing"
	"github.com/vfg2006/accounting-dashboard-api/pkg/apiErrors"
)

type contextKey string

const ContextKeyClient contextKey = "client"

// Parâmetros de query que carregam os códigos de acesso
const (
	AdminParam  = "admin"
	ClientParam = "cliente"
)

// ClientFromContext devolve o cliente autorizado pelo ClientGate
func ClientFromContext(ctx context.Context) (*domain.Client, bool) {
	client, ok := ctx.Value(ContextKeyClient).(*domain.Client)
	return client, ok && client != nil
}

func writeAccessError(w http.ResponseWriter, err error) {
	var accessErr *accessing.AccessError
	if errors.As(err, &accessErr) {
		apiErrors.WriteError(w, accessErr.Code, accessErr.Err.Error(), nil)
		return
	}
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao validar acesso", nil)
}

// AdminGate libera a rota apenas com ?admin= igual ao código configurado
func AdminGate(gate accessing.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := gate.AuthorizeAdmin(r.URL.Query().Get(AdminParam)); err != nil {
				logrus.WithField("path", r.URL.Path).Warn("Tentativa de acesso administrativo negada")
				writeAccessError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientGate exige ?cliente= de um cliente cadastrado e ativo e o coloca no
// contexto. O código é comparado exatamente como veio.
func ClientGate(gate accessing.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get(ClientParam)

			client, err := gate.AuthorizeClient(r.Context(), code)
			if err != nil {
				logrus.WithError(err).WithField("client_code", code).Warn("Acesso de cliente negado")
				writeAccessError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyClient, client)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
