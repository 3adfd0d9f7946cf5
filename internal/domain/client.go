package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Client struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedOn time.Time `json:"created_on"`
}

// ClientOverview é a visão administrativa de um cliente, com o estado dos seus arquivos
type ClientOverview struct {
	Client
	HasData      bool   `json:"has_data"`
	HasDocuments bool   `json:"has_documents"`
	AccessLink   string `json:"access_link"`
}

type CreateClientRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type UpdateClientRequest struct {
	Active *bool `json:"active"`
}

type DeleteConfirmationRequest struct {
	Token string `json:"token"`
}

// DeleteClaims são as claims do token de confirmação de exclusão de cliente
type DeleteClaims struct {
	ClientCode      string `json:"client_code"`
	ClientCreatedOn string `json:"client_created_on"` // amarra o token ao cadastro atual do código
	jwt.RegisteredClaims
}
