// Package dashboard monta o painel de um cliente a partir da planilha vigente
// e o comparativo anônimo entre clientes.
package dashboard

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/vfg2006/accounting-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/accounting-dashboard-api/infrastructure/storage"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/analyzing"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/normalizing"
	"github.com/vfg2006/accounting-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/accounting-dashboard-api/pkg/format"
	"github.com/xuri/excelize/v2"
)

// SpreadsheetSource abre a planilha vigente de um cliente
type SpreadsheetSource interface {
	OpenSpreadsheet(code string) (afero.File, string, error)
}

type DashboardService interface {
	Dashboard(ctx context.Context, code string, period domain.PeriodRange) (*domain.Dashboard, error)
	Benchmark(ctx context.Context) (*domain.Benchmark, error)
}

type Service struct {
	clientRepository repository.ClientRepository
	files            SpreadsheetSource
	parser           normalizing.SpreadsheetParser
	policy           analyzing.RangePolicy
}

func NewService(
	clientRepository repository.ClientRepository,
	files SpreadsheetSource,
	parser normalizing.SpreadsheetParser,
	policy analyzing.RangePolicy,
) DashboardService {
	return &Service{
		clientRepository: clientRepository,
		files:            files,
		parser:           parser,
		policy:           policy,
	}
}

// loadLedger lê e normaliza a planilha vigente. found é falso quando o
// cliente ainda não tem planilha.
func (s *Service) loadLedger(code string) (ledger domain.Ledger, source string, found bool, err error) {
	f, name, err := s.files.OpenSpreadsheet(code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", false, nil
		}
		logrus.WithError(err).WithField("client_code", code).Error("Erro ao abrir planilha do cliente")
		return nil, "", false, NewDashboardError(ErrStorageOperation, apiErrors.ErrStorageFailure, code, "")
	}
	defer f.Close()

	ledger, err = s.parser.ParseWorkbook(f)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"client_code": code,
			"file":        name,
		}).Warn("Planilha vigente fora do layout esperado")
		return nil, name, true, NewDashboardError(ErrMalformedSpreadsheet, apiErrors.ErrMalformedSpreadsheet, code, err.Error())
	}

	return ledger, name, true, nil
}

func (s *Service) Dashboard(ctx context.Context, code string, period domain.PeriodRange) (*domain.Dashboard, error) {
	client, err := s.clientRepository.GetClient(ctx, code)
	if err != nil {
		logrus.WithError(err).WithField("client_code", code).Error("Erro ao buscar cliente no cadastro")
		return nil, NewDashboardError(ErrRegistryOperation, apiErrors.ErrStorageFailure, code, "")
	}
	if client == nil {
		return nil, NewDashboardError(ErrClientNotFound, apiErrors.ErrClientNotFound, code, "")
	}

	dashboard := &domain.Dashboard{
		Client:         domain.ClientHeader{Code: client.Code, Name: client.Name},
		Periods:        []domain.Period{},
		Months:         []domain.DashboardMonth{},
		Alerts:         []domain.Alert{},
		SalesVsAverage: []domain.SalesDeviation{},
	}

	ledger, source, found, err := s.loadLedger(code)
	if err != nil {
		return nil, err
	}
	if !found {
		return dashboard, nil
	}

	selected, err := analyzing.SelectRange(ledger, period.From, period.To, s.policy)
	if err != nil {
		return nil, rangeError(err, code)
	}

	records := analyzing.DeriveAll(selected)

	aggregate, err := analyzing.Aggregate(records)
	if err != nil {
		return nil, rangeError(err, code)
	}

	alerts, err := analyzing.DetectAlerts(selected)
	if err != nil {
		return nil, rangeError(err, code)
	}

	summary, err := analyzing.Summarize(records)
	if err != nil {
		return nil, rangeError(err, code)
	}

	first := selected[0]
	last, _ := selected.Last()

	dashboard.HasData = true
	dashboard.SourceFile = source
	dashboard.Periods = ledger.Periods()
	dashboard.Range = domain.PeriodRange{From: first.Period, To: last.Period}

	for _, record := range records {
		dashboard.Months = append(dashboard.Months, domain.DashboardMonth{
			DerivedRecord: record,
			Display:       format.Month(record),
		})
	}

	aggregateDisplay := format.Aggregate(aggregate)
	dashboard.Aggregate = &aggregate
	dashboard.AggregateDisplay = &aggregateDisplay

	for _, alert := range alerts {
		dashboard.Alerts = append(dashboard.Alerts, describeAlert(alert))
	}

	dashboard.Summary = describeSummary(summary)
	dashboard.SalesVsAverage = describeDeviations(records)
	dashboard.PurchaseMix = describePurchaseMix(records)

	logrus.WithFields(logrus.Fields{
		"client_code": code,
		"period":      dashboard.Range.From.String() + ".." + dashboard.Range.To.String(),
		"months":      len(records),
	}).Debug("Painel calculado")

	return dashboard, nil
}

// Benchmark compara clientes ativos sem identificá-los. Clientes sem planilha
// ou com planilha inválida ficam de fora.
func (s *Service) Benchmark(ctx context.Context) (*domain.Benchmark, error) {
	clients, err := s.clientRepository.ListClients(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar clientes para o comparativo")
		return nil, NewDashboardError(ErrRegistryOperation, apiErrors.ErrStorageFailure, "", "")
	}

	if len(clients) < 2 {
		return nil, NewDashboardError(ErrNotEnoughClients, apiErrors.ErrNotEnoughClients, "", "")
	}

	entries := make([]domain.BenchmarkEntry, 0, len(clients))
	for _, client := range clients {
		if !client.Active {
			continue
		}

		ledger, _, found, err := s.loadLedger(client.Code)
		if err != nil || !found {
			continue
		}

		aggregate, err := analyzing.Aggregate(analyzing.DeriveAll(ledger))
		if err != nil {
			continue
		}

		pct := positiveSalesPct(aggregate)
		entries = append(entries, domain.BenchmarkEntry{
			Label:                       benchmarkLabel(len(entries)),
			Months:                      aggregate.Months,
			TotalSales:                  aggregate.TotalSales,
			TotalOperatingMargin:        aggregate.TotalOperatingMargin,
			OperatingMarginPct:          pct,
			TotalSalesDisplay:           format.Amount(aggregate.TotalSales),
			TotalOperatingMarginDisplay: format.Amount(aggregate.TotalOperatingMargin),
			OperatingMarginPctDisplay:   format.Percent(pct),
		})
	}

	if len(entries) < 2 {
		return nil, NewDashboardError(ErrNotEnoughClients, apiErrors.ErrNotEnoughClients, "", "")
	}

	return &domain.Benchmark{Entries: entries}, nil
}

// benchmarkLabel gera Cliente A, Cliente B, ..., Cliente Z, Cliente AA
func benchmarkLabel(i int) string {
	name, err := excelize.ColumnNumberToName(i + 1)
	if err != nil {
		return "Cliente"
	}
	return "Cliente " + name
}
