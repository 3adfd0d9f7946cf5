package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
)

// clientCodeParam lê o :code da rota já normalizado
func clientCodeParam(r *http.Request) string {
	return strings.ToLower(strings.TrimSpace(httprouter.ParamsFromContext(r.Context()).ByName("code")))
}

// periodParam devolve o período como veio. Só um valor em branco vira
// "sem filtro"; cabeçalhos em texto podem ter espaços nas bordas.
func periodParam(query url.Values, key string) domain.Period {
	value := query.Get(key)
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return domain.Period(value)
}

func periodRangeQuery(r *http.Request) domain.PeriodRange {
	query := r.URL.Query()
	return domain.PeriodRange{
		From: periodParam(query, "from"),
		To:   periodParam(query, "to"),
	}
}
