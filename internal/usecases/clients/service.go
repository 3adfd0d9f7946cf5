package clients

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/accounting-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/accounting-dashboard-api/internal/config"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
	"github.com/vfg2006/accounting-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/accounting-dashboard-api/pkg/utils"
)

const createdOnLayout = "2006-01-02"

// códigos em minúsculas, com letras, dígitos, _ ou -, e ao menos uma letra
var codePattern = regexp.MustCompile(`^[a-z0-9_-]*[a-z][a-z0-9_-]*$`)

// ClientFiles é a parte do armazenamento de arquivos usada pela administração
type ClientFiles interface {
	EnsureClient(code string) error
	RemoveClient(code string) error
	HasData(code string) (bool, error)
	HasDocuments(code string) (bool, error)
}

type ClientService interface {
	Create(ctx context.Context, request *domain.CreateClientRequest) (*domain.ClientOverview, error)
	List(ctx context.Context) ([]*domain.ClientOverview, error)
	SetActive(ctx context.Context, code string, active bool) (*domain.ClientOverview, error)
	RequestDelete(ctx context.Context, code string) (string, error)
	ConfirmDelete(ctx context.Context, token string) (string, error)
}

type Service struct {
	clientRepository repository.ClientRepository
	files            ClientFiles
	secretKey        []byte
	deleteTokenTTL   time.Duration
	publicBaseURL    string
	now              func() time.Time

	mu         sync.Mutex
	usedTokens map[string]time.Time // jti -> expiração
}

func NewService(clientRepository repository.ClientRepository, files ClientFiles, cfg *config.Config) ClientService {
	return &Service{
		clientRepository: clientRepository,
		files:            files,
		secretKey:        []byte(cfg.SecretKey),
		deleteTokenTTL:   cfg.Access.DeleteTokenTTL(),
		publicBaseURL:    cfg.Server.PublicBaseURL,
		now:              time.Now,
		usedTokens:       make(map[string]time.Time),
	}
}

// NormalizeCode aplica as regras de formato do código de cliente
func NormalizeCode(code string) (string, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return "", ErrCodeRequired
	}
	if !codePattern.MatchString(code) {
		return "", ErrInvalidCode
	}
	return code, nil
}

// AccessLink monta o link que o cliente usa para ver o próprio painel
func AccessLink(baseURL, code string) string {
	return baseURL + "?cliente=" + url.QueryEscape(code)
}

func (s *Service) Create(ctx context.Context, request *domain.CreateClientRequest) (*domain.ClientOverview, error) {
	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, NewClientError(ErrNameRequired, apiErrors.ErrMissingRequiredData, "Informe o nome do cliente")
	}

	code, err := NormalizeCode(request.Code)
	if err != nil {
		if errors.Is(err, ErrCodeRequired) {
			return nil, NewClientError(err, apiErrors.ErrMissingRequiredData, "Informe o código do cliente")
		}
		return nil, NewClientErrorWithCode(err, apiErrors.ErrInvalidFormat, request.Code, "Use letras minúsculas, dígitos, _ ou -, sem espaços")
	}

	existing, err := s.clientRepository.GetClient(ctx, code)
	if err != nil {
		logrus.WithError(err).WithField("client_code", code).Error("Erro ao buscar cliente no cadastro")
		return nil, NewClientErrorWithCode(ErrRegistryOperation, apiErrors.ErrStorageFailure, code, "Falha ao consultar o cadastro")
	}

	if existing != nil {
		return nil, NewClientErrorWithCode(ErrClientAlreadyExists, apiErrors.ErrAlreadyExists, code, "Escolha outro código")
	}

	if err := s.files.EnsureClient(code); err != nil {
		logrus.WithError(err).WithField("client_code", code).Error("Erro ao criar diretórios do cliente")
		return nil, NewClientErrorWithCode(ErrFileOperation, apiErrors.ErrStorageFailure, code, "Falha ao criar diretórios do cliente")
	}

	now := s.now()
	client := &domain.Client{
		Code:      code,
		Name:      name,
		Active:    true,
		CreatedOn: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}

	if err := s.clientRepository.SaveOrUpdate(ctx, client); err != nil {
		logrus.WithError(err).WithField("client_code", code).Error("Erro ao salvar cliente no cadastro")
		return nil, NewClientErrorWithCode(ErrRegistryOperation, apiErrors.ErrStorageFailure, code, "Falha ao salvar cliente")
	}

	logrus.WithField("client_code", code).Info("Cliente criado com sucesso")

	return &domain.ClientOverview{
		Client:     *client,
		AccessLink: AccessLink(s.publicBaseURL, code),
	}, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.ClientOverview, error) {
	clients, err := s.clientRepository.ListClients(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar clientes")
		return nil, NewClientError(ErrRegistryOperation, apiErrors.ErrStorageFailure, "Falha ao listar clientes")
	}

	overviews := make([]*domain.ClientOverview, 0, len(clients))
	for _, client := range clients {
		overviews = append(overviews, s.overview(client))
	}

	return overviews, nil
}

// overview trata falhas de leitura de arquivos como ausência de arquivos
func (s *Service) overview(client *domain.Client) *domain.ClientOverview {
	hasData, err := s.files.HasData(client.Code)
	if err != nil {
		logrus.WithError(err).WithField("client_code", client.Code).Warn("Não foi possível verificar a planilha do cliente")
	}

	hasDocuments, err := s.files.HasDocuments(client.Code)
	if err != nil {
		logrus.WithError(err).WithField("client_code", client.Code).Warn("Não foi possível verificar os documentos do cliente")
	}

	return &domain.ClientOverview{
		Client:       *client,
		HasData:      hasData,
		HasDocuments: hasDocuments,
		AccessLink:   AccessLink(s.publicBaseURL, client.Code),
	}
}

func (s *Service) getExisting(ctx context.Context, code string) (*domain.Client, error) {
	client, err := s.clientRepository.GetClient(ctx, code)
	if err != nil {
		logrus.WithError(err).WithField("client_code", code).Error("Erro ao buscar cliente no cadastro")
		return nil, NewClientErrorWithCode(ErrRegistryOperation, apiErrors.ErrStorageFailure, code, "Falha ao consultar o cadastro")
	}

	if client == nil {
		return nil, NewClientErrorWithCode(ErrClientNotFound, apiErrors.ErrClientNotFound, code, "Cliente não encontrado")
	}

	return client, nil
}

func (s *Service) SetActive(ctx context.Context, code string, active bool) (*domain.ClientOverview, error) {
	client, err := s.getExisting(ctx, code)
	if err != nil {
		return nil, err
	}

	client.Active = active
	if err := s.clientRepository.SaveOrUpdate(ctx, client); err != nil {
		logrus.WithError(err).WithField("client_code", code).Error("Erro ao atualizar cliente")
		return nil, NewClientErrorWithCode(ErrRegistryOperation, apiErrors.ErrStorageFailure, code, "Falha ao atualizar cliente")
	}

	logrus.WithFields(logrus.Fields{
		"client_code": code,
		"active":      active,
	}).Info("Situação do cliente atualizada")

	return s.overview(client), nil
}

// RequestDelete emite o token assinado que autoriza a exclusão do cliente
func (s *Service) RequestDelete(ctx context.Context, code string) (string, error) {
	client, err := s.getExisting(ctx, code)
	if err != nil {
		return "", err
	}

	tokenID, err := utils.GenerateID()
	if err != nil {
		return "", NewClientErrorWithCode(ErrGenerateToken, apiErrors.ErrInternalServer, code, "Falha ao gerar identificador do token")
	}

	now := s.now()
	claims := domain.DeleteClaims{
		ClientCode:      client.Code,
		ClientCreatedOn: client.CreatedOn.Format(createdOnLayout),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   client.Code,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.deleteTokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", NewClientErrorWithCode(ErrGenerateToken, apiErrors.ErrInternalServer, code, "Falha ao assinar token")
	}

	return token, nil
}

func (s *Service) parseDeleteToken(tokenString string) (*domain.DeleteClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.DeleteClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*domain.DeleteClaims)
	if !ok || !token.Valid || claims.Subject == "" || claims.Subject != claims.ClientCode {
		return nil, ErrInvalidConfirmation
	}

	return claims, nil
}

// consumeToken marca o jti como usado. Devolve falso se ele já foi usado.
func (s *Service) consumeToken(claims *domain.DeleteClaims) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, expiresAt := range s.usedTokens {
		if now.After(expiresAt) {
			delete(s.usedTokens, id)
		}
	}

	if _, used := s.usedTokens[claims.ID]; used {
		return false
	}

	s.usedTokens[claims.ID] = claims.ExpiresAt.Time
	return true
}

// ConfirmDelete valida o token e remove o cadastro e os arquivos do cliente.
// Cada token vale uma vez e só para o cadastro que existia quando foi emitido.
func (s *Service) ConfirmDelete(ctx context.Context, token string) (string, error) {
	claims, err := s.parseDeleteToken(token)
	if err != nil {
		logrus.WithError(err).Warn("Token de confirmação de exclusão rejeitado")
		return "", NewClientError(ErrInvalidConfirmation, apiErrors.ErrInvalidConfirmation, "Solicite a exclusão novamente")
	}

	code := claims.Subject

	if !s.consumeToken(claims) {
		logrus.WithField("client_code", code).Warn("Token de confirmação de exclusão reutilizado")
		return "", NewClientErrorWithCode(ErrInvalidConfirmation, apiErrors.ErrInvalidConfirmation, code, "Solicite a exclusão novamente")
	}

	client, err := s.getExisting(ctx, code)
	if err != nil {
		return "", err
	}

	if client.CreatedOn.Format(createdOnLayout) != claims.ClientCreatedOn {
		logrus.WithField("client_code", code).Warn("Token de exclusão emitido para um cadastro anterior do mesmo código")
		return "", NewClientErrorWithCode(ErrInvalidConfirmation, apiErrors.ErrInvalidConfirmation, code, "Solicite a exclusão novamente")
	}

	if err := s.clientRepository.DeleteClient(ctx, code); err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			return "", NewClientErrorWithCode(ErrClientNotFound, apiErrors.ErrClientNotFound, code, "Cliente já removido")
		}
		logrus.WithError(err).WithField("client_code", code).Error("Erro ao remover cliente do cadastro")
		return "", NewClientErrorWithCode(ErrRegistryOperation, apiErrors.ErrStorageFailure, code, "Falha ao remover cliente")
	}

	if err := s.files.RemoveClient(code); err != nil {
		logrus.WithError(err).WithField("client_code", code).Error("Cliente removido do cadastro, mas os arquivos permaneceram")
		return code, NewClientErrorWithCode(ErrFileOperation, apiErrors.ErrStorageFailure, code, "Falha ao remover arquivos do cliente")
	}

	logrus.WithField("client_code", code).Info("Cliente removido com sucesso")

	return code, nil
}
