package handler

import (
	"net/http"

	"github.com/vfg2006/accounting-dashboard-api/internal/api/handler/router"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/accessing"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/clients"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/dashboard"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/documents"
	"github.com/vfg2006/accounting-dashboard-api/internal/usecases/uploading"
	"github.com/vfg2006/accounting-dashboard-api/pkg/middleware"
)

func Healthcheck(registry Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(registry),
		},
	}
}

func ClientArea(gate accessing.Gate, dashboards dashboard.DashboardService, docs documents.DocumentService) []router.Route {
	clientOnly := []func(http.Handler) http.Handler{middleware.ClientGate(gate)}

	return []router.Route{
		{
			Path:        "/v1/dashboard",
			Method:      http.MethodGet,
			Handler:     GetDashboard(dashboards),
			Middlewares: clientOnly,
		},
		{
			Path:        "/v1/documents",
			Method:      http.MethodGet,
			Handler:     ClientDocuments(docs),
			Middlewares: clientOnly,
		},
		{
			Path:        "/v1/documents/:name",
			Method:      http.MethodGet,
			Handler:     ClientDocumentDownload(docs),
			Middlewares: clientOnly,
		},
	}
}

func Clients(gate accessing.Gate, service clients.ClientService) []router.Route {
	adminOnly := []func(http.Handler) http.Handler{middleware.AdminGate(gate)}

	return []router.Route{
		{
			Path:        "/v1/admin/clients",
			Method:      http.MethodGet,
			Handler:     ListClients(service),
			Middlewares: adminOnly,
		},
		{
			Path:        "/v1/admin/clients",
			Method:      http.MethodPost,
			Handler:     CreateClient(service),
			Middlewares: adminOnly,
		},
		{
			Path:        "/v1/admin/clients/:code",
			Method:      http.MethodPatch,
			Handler:     UpdateClient(service),
			Middlewares: adminOnly,
		},
		{
			Path:        "/v1/admin/clients/:code/delete-request",
			Method:      http.MethodPost,
			Handler:     RequestClientDelete(service),
			Middlewares: adminOnly,
		},
		{
			Path:        "/v1/admin/deletions/confirm",
			Method:      http.MethodPost,
			Handler:     ConfirmClientDelete(service),
			Middlewares: adminOnly,
		},
	}
}

func Spreadsheets(gate accessing.Gate, service uploading.Uploader, maxBytes int64) []router.Route {
	adminOnly := []func(http.Handler) http.Handler{middleware.AdminGate(gate)}

	return []router.Route{
		{
			Path:        "/v1/admin/clients/:code/spreadsheet/preview",
			Method:      http.MethodPost,
			Handler:     PreviewSpreadsheet(service, maxBytes),
			Middlewares: adminOnly,
		},
		{
			Path:        "/v1/admin/clients/:code/spreadsheet/confirm",
			Method:      http.MethodPost,
			Handler:     ConfirmSpreadsheet(service),
			Middlewares: adminOnly,
		},
		{
			Path:        "/v1/admin/clients/:code/spreadsheet/discard",
			Method:      http.MethodPost,
			Handler:     DiscardSpreadsheet(service),
			Middlewares: adminOnly,
		},
	}
}

func Documents(gate accessing.Gate, service documents.DocumentService, maxBytes int64) []router.Route {
	adminOnly := []func(http.Handler) http.Handler{middleware.AdminGate(gate)}

	return []router.Route{
		{
			Path:        "/v1/admin/clients/:code/documents",
			Method:      http.MethodGet,
			Handler:     AdminDocuments(service),
			Middlewares: adminOnly,
		},
		{
			Path:        "/v1/admin/clients/:code/documents",
			Method:      http.MethodPost,
			Handler:     UploadDocument(service, maxBytes),
			Middlewares: adminOnly,
		},
		{
			Path:        "/v1/admin/clients/:code/documents/:name",
			Method:      http.MethodGet,
			Handler:     AdminDocumentDownload(service),
			Middlewares: adminOnly,
		},
		{
			Path:        "/v1/admin/clients/:code/documents/:name",
			Method:      http.MethodDelete,
			Handler:     DeleteDocument(service),
			Middlewares: adminOnly,
		},
		{
			Path:        "/v1/admin/clients/:code/reports",
			Method:      http.MethodPost,
			Handler:     GenerateReport(service),
			Middlewares: adminOnly,
		},
	}
}

func Benchmark(gate accessing.Gate, service dashboard.DashboardService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/admin/benchmark",
			Method:      http.MethodGet,
			Handler:     GetBenchmark(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminGate(gate)},
		},
	}
}

func Jobs(gate accessing.Gate, job CleanupJob) []router.Route {
	adminOnly := []func(http.Handler) http.Handler{middleware.AdminGate(gate)}

	return []router.Route{
		{
			Path:        "/v1/admin/jobs/staging-cleanup/run",
			Method:      http.MethodPost,
			Handler:     RunStagingCleanup(job),
			Middlewares: adminOnly,
		},
		{
			Path:        "/v1/admin/jobs/status",
			Method:      http.MethodGet,
			Handler:     JobsStatus(job),
			Middlewares: adminOnly,
		},
	}
}
