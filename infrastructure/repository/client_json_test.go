package repository

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
)

const legacyRegistry = `{
  "clientes": {
    "supply_petrolero": {
      "nombre": "Supply Petrolero SRL",
      "codigo": "supply_petrolero",
      "activo": true,
      "fecha_alta": "2024-03-10"
    },
    "agro_norte": {
      "nombre": "Agro Norte SA",
      "codigo": "agro_norte",
      "activo": false,
      "fecha_alta": "2024-01-05"
    }
  },
  "admin": {"codigo": "admin2024", "nombre": "Administrador"}
}`

func TestClientJSONRepository_ReadsLegacyFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "clientes.json", []byte(legacyRegistry), 0o644))

	repo := NewClientJSONRepository(fs, "clientes.json")
	ctx := context.Background()

	client, err := repo.GetClient(ctx, "supply_petrolero")
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, "Supply Petrolero SRL", client.Name)
	assert.True(t, client.Active)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), client.CreatedOn)

	missing, err := repo.GetClient(ctx, "inexistente")
	require.NoError(t, err)
	assert.Nil(t, missing)

	clients, err := repo.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "supply_petrolero", clients[0].Code, "ordem do arquivo, não da data de alta")
	assert.Equal(t, "agro_norte", clients[1].Code)
}

func TestClientJSONRepository_SaveDeleteRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "data/clientes.json", []byte(legacyRegistry), 0o644))

	repo := NewClientJSONRepository(fs, "data/clientes.json")
	ctx := context.Background()

	err := repo.SaveOrUpdate(ctx, &domain.Client{
		Code:      "nueva_sa",
		Name:      "Nueva SA",
		Active:    true,
		CreatedOn: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteClient(ctx, "agro_norte"))
	assert.ErrorIs(t, repo.DeleteClient(ctx, "agro_norte"), ErrClientNotFound)

	content, err := afero.ReadFile(fs, "data/clientes.json")
	require.NoError(t, err)
	assert.Contains(t, string(content), `"fecha_alta": "2024-06-01"`)
	assert.Contains(t, string(content), `"admin"`)
	assert.NotContains(t, string(content), "agro_norte")

	exists, err := afero.Exists(fs, "data/clientes.json.tmp")
	require.NoError(t, err)
	assert.False(t, exists)

	clients, err := repo.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "supply_petrolero", clients[0].Code)
	assert.Equal(t, "nueva_sa", clients[1].Code)
}

func TestClientJSONRepository_KeepsRegistrationOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "clientes.json", []byte(legacyRegistry), 0o644))

	repo := NewClientJSONRepository(fs, "clientes.json")
	ctx := context.Background()

	// data de alta anterior à dos existentes, mas cadastrado por último
	require.NoError(t, repo.SaveOrUpdate(ctx, &domain.Client{
		Code:      "antiga_sa",
		Name:      "Antiga SA",
		Active:    true,
		CreatedOn: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, repo.SaveOrUpdate(ctx, &domain.Client{Code: "agro_norte", Name: "Agro Norte SA", Active: true}))
	require.NoError(t, repo.DeleteClient(ctx, "supply_petrolero"))
	require.NoError(t, repo.SaveOrUpdate(ctx, &domain.Client{Code: "supply_petrolero", Name: "Supply Petrolero SRL", Active: true}))

	reopened := NewClientJSONRepository(fs, "clientes.json")
	clients, err := reopened.ListClients(ctx)
	require.NoError(t, err)

	codes := make([]string, 0, len(clients))
	for _, client := range clients {
		codes = append(codes, client.Code)
	}
	assert.Equal(t, []string{"agro_norte", "antiga_sa", "supply_petrolero"}, codes)

	agro, err := reopened.GetClient(ctx, "agro_norte")
	require.NoError(t, err)
	assert.True(t, agro.Active)
}

func TestClientJSONRepository_MissingFileIsEmpty(t *testing.T) {
	repo := NewClientJSONRepository(afero.NewMemMapFs(), "clientes.json")

	clients, err := repo.ListClients(context.Background())
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestClientJSONRepository_InvalidFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "clientes.json", []byte("{no es json"), 0o644))

	_, err := NewClientJSONRepository(fs, "clientes.json").ListClients(context.Background())
	assert.Error(t, err)
}
