package clients

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/accounting-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/accounting-dashboard-api/infrastructure/repository/mocks"
	"github.com/vfg2006/accounting-dashboard-api/infrastructure/storage"
	"github.com/vfg2006/accounting-dashboard-api/internal/config"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
	"github.com/vfg2006/accounting-dashboard-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		SecretKey: "segredo-de-teste",
		Access:    config.Access{AdminCode: "admin2024", DeleteTokenTTLMinutes: 5},
		Server:    config.Server{PublicBaseURL: "https://painel.exemplo.com"},
	}
}

func newTestService(t *testing.T) (*Service, *mocks.MockClientRepository, *storage.FileStore, afero.Fs) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockClientRepository(ctrl)

	fs := afero.NewMemMapFs()
	files, err := storage.NewFileStore(fs, "datos")
	require.NoError(t, err)

	svc := NewService(repo, files, testConfig()).(*Service)
	svc.now = func() time.Time { return fixedNow }

	return svc, repo, files, fs
}

func requireClientError(t *testing.T, err error, want error, code string) {
	t.Helper()

	require.Error(t, err)
	assert.ErrorIs(t, err, want)

	var clientErr *ClientError
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, code, clientErr.Code)
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "código simples", input: "supply_petrolero", want: "supply_petrolero"},
		{name: "maiúsculas e espaços nas bordas", input: "  Agro-Norte ", want: "agro-norte"},
		{name: "letras e dígitos", input: "cliente2024", want: "cliente2024"},
		{name: "vazio", input: "   ", wantErr: ErrCodeRequired},
		{name: "espaço interno", input: "agro norte", wantErr: ErrInvalidCode},
		{name: "somente dígitos", input: "2024", wantErr: ErrInvalidCode},
		{name: "separador de diretório", input: "../admin", wantErr: ErrInvalidCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCode(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name     string
		request  domain.CreateClientRequest
		setup    func(repo *mocks.MockClientRepository)
		wantErr  error
		wantCode string
	}{
		{
			name:    "cria cliente ativo",
			request: domain.CreateClientRequest{Name: " Supply Petrolero SRL ", Code: "Supply_Petrolero"},
			setup: func(repo *mocks.MockClientRepository) {
				repo.EXPECT().GetClient(gomock.Any(), "supply_petrolero").Return(nil, nil)
				repo.EXPECT().SaveOrUpdate(gomock.Any(), &domain.Client{
					Code:      "supply_petrolero",
					Name:      "Supply Petrolero SRL",
					Active:    true,
					CreatedOn: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
				}).Return(nil)
			},
		},
		{
			name:     "nome ausente",
			request:  domain.CreateClientRequest{Code: "supply"},
			setup:    func(repo *mocks.MockClientRepository) {},
			wantErr:  ErrNameRequired,
			wantCode: apiErrors.ErrMissingRequiredData,
		},
		{
			name:     "código ausente",
			request:  domain.CreateClientRequest{Name: "Supply"},
			setup:    func(repo *mocks.MockClientRepository) {},
			wantErr:  ErrCodeRequired,
			wantCode: apiErrors.ErrMissingRequiredData,
		},
		{
			name:     "código com espaço",
			request:  domain.CreateClientRequest{Name: "Supply", Code: "supply srl"},
			setup:    func(repo *mocks.MockClientRepository) {},
			wantErr:  ErrInvalidCode,
			wantCode: apiErrors.ErrInvalidFormat,
		},
		{
			name:    "código duplicado",
			request: domain.CreateClientRequest{Name: "Supply", Code: "supply"},
			setup: func(repo *mocks.MockClientRepository) {
				repo.EXPECT().GetClient(gomock.Any(), "supply").Return(&domain.Client{Code: "supply"}, nil)
			},
			wantErr:  ErrClientAlreadyExists,
			wantCode: apiErrors.ErrAlreadyExists,
		},
		{
			name:    "falha ao salvar",
			request: domain.CreateClientRequest{Name: "Supply", Code: "supply"},
			setup: func(repo *mocks.MockClientRepository) {
				repo.EXPECT().GetClient(gomock.Any(), "supply").Return(nil, nil)
				repo.EXPECT().SaveOrUpdate(gomock.Any(), gomock.Any()).Return(errors.New("conexão perdida"))
			},
			wantErr:  ErrRegistryOperation,
			wantCode: apiErrors.ErrStorageFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, fs := newTestService(t)
			tt.setup(repo)

			overview, err := svc.Create(context.Background(), &tt.request)

			if tt.wantErr != nil {
				requireClientError(t, err, tt.wantErr, tt.wantCode)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "supply_petrolero", overview.Code)
			assert.Equal(t, "https://painel.exemplo.com?cliente=supply_petrolero", overview.AccessLink)

			exists, err := afero.DirExists(fs, "datos/supply_petrolero/documentos")
			require.NoError(t, err)
			assert.True(t, exists)
		})
	}
}

func TestList(t *testing.T) {
	svc, repo, files, _ := newTestService(t)

	require.NoError(t, files.EnsureClient("agro"))
	require.NoError(t, files.Stage("up1", strings.NewReader("xlsx")))
	_, err := files.PromoteStaged("agro", "up1", fixedNow)
	require.NoError(t, err)
	require.NoError(t, files.SaveDocument("supply", "reporte_202405.pdf", strings.NewReader("%PDF")))

	repo.EXPECT().ListClients(gomock.Any()).Return([]*domain.Client{
		{Code: "agro", Name: "Agro Norte", Active: false},
		{Code: "supply", Name: "Supply", Active: true},
	}, nil)

	overviews, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, overviews, 2)

	assert.Equal(t, "agro", overviews[0].Code)
	assert.True(t, overviews[0].HasData)
	assert.False(t, overviews[0].HasDocuments)

	assert.Equal(t, "supply", overviews[1].Code)
	assert.False(t, overviews[1].HasData)
	assert.True(t, overviews[1].HasDocuments)
	assert.Equal(t, "https://painel.exemplo.com?cliente=supply", overviews[1].AccessLink)
}

func TestSetActive(t *testing.T) {
	t.Run("desativa cliente existente", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)

		repo.EXPECT().GetClient(gomock.Any(), "supply").Return(&domain.Client{Code: "supply", Active: true}, nil)
		repo.EXPECT().SaveOrUpdate(gomock.Any(), &domain.Client{Code: "supply", Active: false}).Return(nil)

		overview, err := svc.SetActive(context.Background(), "supply", false)
		require.NoError(t, err)
		assert.False(t, overview.Active)
	})

	t.Run("cliente inexistente", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)

		repo.EXPECT().GetClient(gomock.Any(), "fantasma").Return(nil, nil)

		_, err := svc.SetActive(context.Background(), "fantasma", true)
		requireClientError(t, err, ErrClientNotFound, apiErrors.ErrClientNotFound)
	})
}

func TestDeleteFlow(t *testing.T) {
	t.Run("token válido remove cadastro e arquivos", func(t *testing.T) {
		svc, repo, files, fs := newTestService(t)
		require.NoError(t, files.EnsureClient("supply"))

		repo.EXPECT().GetClient(gomock.Any(), "supply").Return(&domain.Client{Code: "supply", Active: true}, nil).Times(2)
		repo.EXPECT().DeleteClient(gomock.Any(), "supply").Return(nil)

		token, err := svc.RequestDelete(context.Background(), "supply")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		svc.now = func() time.Time { return fixedNow.Add(4 * time.Minute) }

		code, err := svc.ConfirmDelete(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, "supply", code)

		exists, err := afero.DirExists(fs, "datos/supply")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("token expirado", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)

		repo.EXPECT().GetClient(gomock.Any(), "supply").Return(&domain.Client{Code: "supply"}, nil)

		token, err := svc.RequestDelete(context.Background(), "supply")
		require.NoError(t, err)

		svc.now = func() time.Time { return fixedNow.Add(6 * time.Minute) }

		_, err = svc.ConfirmDelete(context.Background(), token)
		requireClientError(t, err, ErrInvalidConfirmation, apiErrors.ErrInvalidConfirmation)
	})

	t.Run("token assinado com outra chave", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)

		repo.EXPECT().GetClient(gomock.Any(), "supply").Return(&domain.Client{Code: "supply"}, nil)

		token, err := svc.RequestDelete(context.Background(), "supply")
		require.NoError(t, err)

		svc.secretKey = []byte("outra-chave")

		_, err = svc.ConfirmDelete(context.Background(), token)
		requireClientError(t, err, ErrInvalidConfirmation, apiErrors.ErrInvalidConfirmation)
	})

	t.Run("token malformado", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)

		_, err := svc.ConfirmDelete(context.Background(), "nao-e-um-jwt")
		requireClientError(t, err, ErrInvalidConfirmation, apiErrors.ErrInvalidConfirmation)
	})

	t.Run("cliente já removido", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)

		gomock.InOrder(
			repo.EXPECT().GetClient(gomock.Any(), "supply").Return(&domain.Client{Code: "supply"}, nil),
			repo.EXPECT().GetClient(gomock.Any(), "supply").Return(nil, nil),
		)

		token, err := svc.RequestDelete(context.Background(), "supply")
		require.NoError(t, err)

		_, err = svc.ConfirmDelete(context.Background(), token)
		requireClientError(t, err, ErrClientNotFound, apiErrors.ErrClientNotFound)
	})

	t.Run("token usado uma segunda vez", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)

		repo.EXPECT().GetClient(gomock.Any(), "supply").Return(&domain.Client{Code: "supply"}, nil).Times(2)
		repo.EXPECT().DeleteClient(gomock.Any(), "supply").Return(nil)

		token, err := svc.RequestDelete(context.Background(), "supply")
		require.NoError(t, err)

		_, err = svc.ConfirmDelete(context.Background(), token)
		require.NoError(t, err)

		_, err = svc.ConfirmDelete(context.Background(), token)
		requireClientError(t, err, ErrInvalidConfirmation, apiErrors.ErrInvalidConfirmation)
	})

	t.Run("token emitido para cadastro anterior do mesmo código", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)

		gomock.InOrder(
			repo.EXPECT().GetClient(gomock.Any(), "supply").
				Return(&domain.Client{Code: "supply", CreatedOn: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)}, nil),
			repo.EXPECT().GetClient(gomock.Any(), "supply").
				Return(&domain.Client{Code: "supply", CreatedOn: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)}, nil),
		)

		token, err := svc.RequestDelete(context.Background(), "supply")
		require.NoError(t, err)

		_, err = svc.ConfirmDelete(context.Background(), token)
		requireClientError(t, err, ErrInvalidConfirmation, apiErrors.ErrInvalidConfirmation)
	})

	t.Run("token antigo não remove cliente recriado com o mesmo código", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		files, err := storage.NewFileStore(fs, "datos")
		require.NoError(t, err)

		repo := repository.NewClientJSONRepository(fs, "clientes.json")
		svc := NewService(repo, files, testConfig()).(*Service)
		svc.now = func() time.Time { return fixedNow }

		ctx := context.Background()

		_, err = svc.Create(ctx, &domain.CreateClientRequest{Name: "Acme", Code: "acme"})
		require.NoError(t, err)

		token, err := svc.RequestDelete(ctx, "acme")
		require.NoError(t, err)

		_, err = svc.ConfirmDelete(ctx, token)
		require.NoError(t, err)

		_, err = svc.Create(ctx, &domain.CreateClientRequest{Name: "Acme Nueva", Code: "acme"})
		require.NoError(t, err)

		_, err = svc.ConfirmDelete(ctx, token)
		requireClientError(t, err, ErrInvalidConfirmation, apiErrors.ErrInvalidConfirmation)

		client, err := repo.GetClient(ctx, "acme")
		require.NoError(t, err)
		require.NotNil(t, client)
		assert.Equal(t, "Acme Nueva", client.Name)
	})

	t.Run("pedido para cliente inexistente", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)

		repo.EXPECT().GetClient(gomock.Any(), "fantasma").Return(nil, nil)

		_, err := svc.RequestDelete(context.Background(), "fantasma")
		requireClientError(t, err, ErrClientNotFound, apiErrors.ErrClientNotFound)
	})
}
