package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
)

func TestUpsertClientQuery(t *testing.T) {
	tests := []struct {
		name         string
		client       *domain.Client
		expectedSQL  string
		expectedArgs []any
	}{
		{
			name:   "sem data de cadastro usa o default da tabela",
			client: &domain.Client{Code: "acme", Name: "Acme SA", Active: true},
			expectedSQL: "INSERT INTO clients (code,name,active) VALUES ($1,$2,$3) " +
				"ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, active = EXCLUDED.active",
			expectedArgs: []any{"acme", "Acme SA", true},
		},
		{
			name: "com data de cadastro grava a data informada",
			client: &domain.Client{
				Code:      "acme",
				Name:      "Acme SA",
				Active:    false,
				CreatedOn: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			},
			expectedSQL: "INSERT INTO clients (code,name,active,created_on) VALUES ($1,$2,$3,$4) " +
				"ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, active = EXCLUDED.active",
			expectedArgs: []any{"acme", "Acme SA", false, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := upsertClientQuery(tt.client)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedSQL, query)
			assert.Equal(t, tt.expectedArgs, args)
		})
	}
}

func TestListClientsQuery_OrdersByRegistration(t *testing.T) {
	query, args, err := listClientsQuery()

	require.NoError(t, err)
	assert.Equal(t, "SELECT code, name, active, created_on FROM clients ORDER BY registered_seq ASC", query)
	assert.Empty(t, args)
}
