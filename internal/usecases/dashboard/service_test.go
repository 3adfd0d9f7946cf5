package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/accounting-dashboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/accounting-dashboard-api/infrastructure/storage"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/analyzing"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/normalizing"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/normalizing/normalizingtest"
	"github.com/vfg2006/accounting-dashboard-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

var (
	supply  = &domain.Client{Code: "supply", Name: "Supply SRL", Active: true}
	outro   = &domain.Client{Code: "outro", Name: "Outro SA", Active: true}
	inativo = &domain.Client{Code: "inativo", Name: "Inativo SA", Active: false}
	vazio   = &domain.Client{Code: "vazio", Name: "Vazio SA", Active: true}
)

func supplyWorkbook(t *testing.T) []byte {
	return normalizingtest.Workbook(t,
		normalizingtest.Month(2024, time.January, 1000000, 400000, 100000, 250000, -50000),
		normalizingtest.Month(2024, time.February, 1200000, 500000, 100000, 300000, 120000),
		normalizingtest.Month(2024, time.March, 900000, 300000, 100000, 300000, 30000),
	)
}

func writeSpreadsheet(t *testing.T, fs afero.Fs, code string, content []byte) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, "datos/"+code+"/datos_20240401_120000.xlsx", content, 0o644))
}

func newTestService(t *testing.T, policy analyzing.RangePolicy) (*Service, *mocks.MockClientRepository, afero.Fs) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockClientRepository(ctrl)

	fs := afero.NewMemMapFs()
	files, err := storage.NewFileStore(fs, "datos")
	require.NoError(t, err)

	svc := NewService(repo, files, normalizing.NewNormalizer(normalizing.DefaultMaxMonths), policy).(*Service)
	return svc, repo, fs
}

func requireDashboardError(t *testing.T, err error, want error, code string) {
	t.Helper()

	require.Error(t, err)
	assert.ErrorIs(t, err, want)

	var dashboardErr *DashboardError
	require.True(t, errors.As(err, &dashboardErr))
	assert.Equal(t, code, dashboardErr.Code)
}

func TestDashboard(t *testing.T) {
	svc, repo, fs := newTestService(t, analyzing.RejectWithError)
	repo.EXPECT().GetClient(gomock.Any(), "supply").Return(supply, nil)
	writeSpreadsheet(t, fs, "supply", supplyWorkbook(t))

	dashboard, err := svc.Dashboard(context.Background(), "supply", domain.PeriodRange{From: "2024-01", To: "2024-02"})
	require.NoError(t, err)

	assert.True(t, dashboard.HasData)
	assert.Equal(t, "Supply SRL", dashboard.Client.Name)
	assert.Equal(t, "datos_20240401_120000.xlsx", dashboard.SourceFile)
	assert.Equal(t, []domain.Period{"2024-01", "2024-02", "2024-03"}, dashboard.Periods)
	assert.Equal(t, domain.PeriodRange{From: "2024-01", To: "2024-02"}, dashboard.Range)
	require.Len(t, dashboard.Months, 2)
	assert.Equal(t, "$1.0M", dashboard.Months[0].Display.Sales)
	assert.Equal(t, "$-0.1M", dashboard.Months[0].Display.OperatingMargin)

	require.NotNil(t, dashboard.AggregateDisplay)
	assert.Equal(t, "$2.2M", dashboard.AggregateDisplay.TotalSales)
	assert.Equal(t, "3.2%", dashboard.AggregateDisplay.OperatingMarginPct)
	assert.Equal(t, 2, dashboard.Aggregate.Months)

	require.Len(t, dashboard.Alerts, 2)
	assert.Equal(t, domain.AlertNegativeMargin, dashboard.Alerts[0].Kind)
	assert.Equal(t, "El mes 2024-01 tuvo margen operativo negativo: $-0.1M", dashboard.Alerts[0].Message)
	assert.Equal(t, domain.AlertMarginRecovered, dashboard.Alerts[1].Kind)
	assert.Equal(t, "✅ Recuperación de Margen", dashboard.Alerts[1].Title)

	require.NotNil(t, dashboard.Summary)
	assert.Equal(t, domain.Period("2024-02"), dashboard.Summary.BestSales.Period)
	assert.Equal(t, "$1.2M", dashboard.Summary.BestSales.Display)
	assert.Equal(t, domain.Period("2024-01"), dashboard.Summary.WorstOperatingMargin.Period)

	require.Len(t, dashboard.SalesVsAverage, 2)
	require.NotNil(t, dashboard.PurchaseMix)
	assert.Equal(t, "$0.5M", dashboard.PurchaseMix.AvgTaxableDisplay)
}

func TestDashboard_FullLedgerByDefault(t *testing.T) {
	svc, repo, fs := newTestService(t, analyzing.RejectWithError)
	repo.EXPECT().GetClient(gomock.Any(), "supply").Return(supply, nil)
	writeSpreadsheet(t, fs, "supply", supplyWorkbook(t))

	dashboard, err := svc.Dashboard(context.Background(), "supply", domain.PeriodRange{})
	require.NoError(t, err)

	assert.Len(t, dashboard.Months, 3)
	assert.Equal(t, domain.PeriodRange{From: "2024-01", To: "2024-03"}, dashboard.Range)
	// o último mês é positivo depois de um negativo
	assert.Len(t, dashboard.Alerts, 2)
}

func TestDashboard_WithoutSpreadsheet(t *testing.T) {
	svc, repo, _ := newTestService(t, analyzing.RejectWithError)
	repo.EXPECT().GetClient(gomock.Any(), "vazio").Return(vazio, nil)

	dashboard, err := svc.Dashboard(context.Background(), "vazio", domain.PeriodRange{})
	require.NoError(t, err)

	assert.False(t, dashboard.HasData)
	assert.Equal(t, "Vazio SA", dashboard.Client.Name)
	assert.Empty(t, dashboard.Months)
	assert.NotNil(t, dashboard.Alerts)
	assert.Nil(t, dashboard.Aggregate)
}

func TestDashboard_Errors(t *testing.T) {
	tests := []struct {
		name     string
		policy   analyzing.RangePolicy
		client   *domain.Client
		content  func(t *testing.T) []byte
		period   domain.PeriodRange
		wantErr  error
		wantCode string
	}{
		{
			name:     "cliente inexistente",
			client:   nil,
			period:   domain.PeriodRange{},
			wantErr:  ErrClientNotFound,
			wantCode: apiErrors.ErrClientNotFound,
		},
		{
			name:     "mês fora da planilha",
			client:   supply,
			content:  supplyWorkbook,
			period:   domain.PeriodRange{From: "2023-12"},
			wantErr:  analyzing.ErrUnknownPeriod,
			wantCode: apiErrors.ErrUnknownPeriod,
		},
		{
			name:     "intervalo invertido",
			policy:   analyzing.RejectWithError,
			client:   supply,
			content:  supplyWorkbook,
			period:   domain.PeriodRange{From: "2024-03", To: "2024-01"},
			wantErr:  analyzing.ErrInvertedRange,
			wantCode: apiErrors.ErrInvertedRange,
		},
		{
			name:     "planilha vigente corrompida",
			client:   supply,
			content:  func(t *testing.T) []byte { return []byte("não é xlsx") },
			period:   domain.PeriodRange{},
			wantErr:  ErrMalformedSpreadsheet,
			wantCode: apiErrors.ErrMalformedSpreadsheet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, fs := newTestService(t, tt.policy)
			repo.EXPECT().GetClient(gomock.Any(), "supply").Return(tt.client, nil)
			if tt.content != nil {
				writeSpreadsheet(t, fs, "supply", tt.content(t))
			}

			_, err := svc.Dashboard(context.Background(), "supply", tt.period)
			requireDashboardError(t, err, tt.wantErr, tt.wantCode)
		})
	}
}

func TestDashboard_InvertedRangeWithFullPolicy(t *testing.T) {
	svc, repo, fs := newTestService(t, analyzing.UseFullLedger)
	repo.EXPECT().GetClient(gomock.Any(), "supply").Return(supply, nil)
	writeSpreadsheet(t, fs, "supply", supplyWorkbook(t))

	dashboard, err := svc.Dashboard(context.Background(), "supply", domain.PeriodRange{From: "2024-03", To: "2024-01"})
	require.NoError(t, err)
	assert.Len(t, dashboard.Months, 3)
}

func TestBenchmark(t *testing.T) {
	svc, repo, fs := newTestService(t, analyzing.RejectWithError)
	repo.EXPECT().ListClients(gomock.Any()).Return([]*domain.Client{supply, inativo, vazio, outro}, nil)

	writeSpreadsheet(t, fs, "supply", supplyWorkbook(t))
	writeSpreadsheet(t, fs, "inativo", supplyWorkbook(t))
	writeSpreadsheet(t, fs, "outro", normalizingtest.Workbook(t,
		normalizingtest.Month(2024, time.January, 500000, 100000, 50000, 100000, 100000),
	))

	benchmark, err := svc.Benchmark(context.Background())
	require.NoError(t, err)
	require.Len(t, benchmark.Entries, 2)

	first := benchmark.Entries[0]
	assert.Equal(t, "Cliente A", first.Label)
	assert.Equal(t, 3, first.Months)
	assert.Equal(t, "$3.1M", first.TotalSalesDisplay)

	second := benchmark.Entries[1]
	assert.Equal(t, "Cliente B", second.Label)
	assert.Equal(t, "$0.5M", second.TotalSalesDisplay)
	assert.Equal(t, "20.0%", second.OperatingMarginPctDisplay)
}

func TestBenchmark_NotEnoughClients(t *testing.T) {
	tests := []struct {
		name    string
		clients []*domain.Client
		data    []string
	}{
		{
			name:    "apenas um cliente cadastrado",
			clients: []*domain.Client{supply},
			data:    []string{"supply"},
		},
		{
			name:    "apenas um cliente com dados",
			clients: []*domain.Client{supply, vazio},
			data:    []string{"supply"},
		},
		{
			name:    "segundo cliente inativo",
			clients: []*domain.Client{supply, inativo},
			data:    []string{"supply", "inativo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, fs := newTestService(t, analyzing.RejectWithError)
			repo.EXPECT().ListClients(gomock.Any()).Return(tt.clients, nil)
			for _, code := range tt.data {
				writeSpreadsheet(t, fs, code, supplyWorkbook(t))
			}

			_, err := svc.Benchmark(context.Background())
			requireDashboardError(t, err, ErrNotEnoughClients, apiErrors.ErrNotEnoughClients)
		})
	}
}

func TestBenchmarkLabel(t *testing.T) {
	assert.Equal(t, "Cliente A", benchmarkLabel(0))
	assert.Equal(t, "Cliente Z", benchmarkLabel(25))
	assert.Equal(t, "Cliente AA", benchmarkLabel(26))
}
