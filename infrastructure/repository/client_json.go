package repository

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// registryJSON grava o cadastro indentado, como o arquivo original
var registryJSON = jsoniter.Config{
	EscapeHTML:             true,
	ValidateJsonRawMessage: true,
	IndentionStep:          2,
}.Froze()

const registryDateLayout = "2006-01-02"

// registryDocument é o conteúdo do arquivo clientes.json. order guarda a
// ordem de cadastro, que é a ordem das chaves em "clientes".
type registryDocument struct {
	Clients map[string]registryClient
	order   []string
	Admin   jsoniter.RawMessage
}

type registryClient struct {
	Name      string `json:"nombre"`
	Code      string `json:"codigo"`
	Active    bool   `json:"activo"`
	CreatedOn string `json:"fecha_alta,omitempty"`
}

// clientJSONRepository guarda o cadastro em um único documento JSON. As
// escritas são serializadas dentro do processo; não há proteção entre processos.
type clientJSONRepository struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

func NewClientJSONRepository(fs afero.Fs, path string) ClientRepository {
	return &clientJSONRepository{
		fs:   fs,
		path: path,
	}
}

func (r *clientJSONRepository) GetClient(_ context.Context, code string) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}

	entry, ok := doc.Clients[code]
	if !ok {
		return nil, nil
	}

	client := toDomainClient(code, entry)
	return &client, nil
}

func (r *clientJSONRepository) ListClients(_ context.Context) ([]*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}

	clients := make([]*domain.Client, 0, len(doc.order))
	for _, code := range doc.order {
		client := toDomainClient(code, doc.Clients[code])
		clients = append(clients, &client)
	}

	return clients, nil
}

func (r *clientJSONRepository) SaveOrUpdate(_ context.Context, client *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}

	entry := registryClient{
		Name:   client.Name,
		Code:   client.Code,
		Active: client.Active,
	}
	if !client.CreatedOn.IsZero() {
		entry.CreatedOn = client.CreatedOn.Format(registryDateLayout)
	}

	if _, exists := doc.Clients[client.Code]; !exists {
		doc.order = append(doc.order, client.Code)
	}
	doc.Clients[client.Code] = entry
	return r.save(doc)
}

func (r *clientJSONRepository) DeleteClient(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}

	if _, ok := doc.Clients[code]; !ok {
		return ErrClientNotFound
	}

	delete(doc.Clients, code)
	doc.order = slices.DeleteFunc(doc.order, func(c string) bool { return c == code })
	return r.save(doc)
}

func (r *clientJSONRepository) load() (*registryDocument, error) {
	doc := &registryDocument{Clients: map[string]registryClient{}}

	content, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, errors.Wrapf(err, "erro ao ler cadastro de clientes %s", r.path)
	}

	if len(content) == 0 {
		return doc, nil
	}

	if err := decodeRegistry(content, doc); err != nil {
		return nil, errors.Wrapf(err, "cadastro de clientes inválido %s", r.path)
	}

	return doc, nil
}

// decodeRegistry lê o documento chave a chave para não perder a ordem dos clientes
func decodeRegistry(content []byte, doc *registryDocument) error {
	iter := json.BorrowIterator(content)
	defer json.ReturnIterator(iter)

	iter.ReadMapCB(func(it *jsoniter.Iterator, field string) bool {
		switch field {
		case "clientes":
			it.ReadMapCB(func(it *jsoniter.Iterator, code string) bool {
				var entry registryClient
				it.ReadVal(&entry)
				if _, seen := doc.Clients[code]; !seen {
					doc.order = append(doc.order, code)
				}
				doc.Clients[code] = entry
				return it.Error == nil
			})
		case "admin":
			doc.Admin = append(jsoniter.RawMessage(nil), it.SkipAndReturnBytes()...)
		default:
			it.Skip()
		}
		return it.Error == nil
	})

	if iter.Error != nil && !errors.Is(iter.Error, io.EOF) {
		return iter.Error
	}
	return nil
}

// encodeRegistry escreve "clientes" na ordem de cadastro
func encodeRegistry(doc *registryDocument) ([]byte, error) {
	stream := registryJSON.BorrowStream(nil)
	defer registryJSON.ReturnStream(stream)

	stream.WriteObjectStart()
	stream.WriteObjectField("clientes")
	stream.WriteObjectStart()
	for i, code := range doc.order {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(code)
		stream.WriteVal(doc.Clients[code])
	}
	stream.WriteObjectEnd()

	if len(doc.Admin) > 0 {
		stream.WriteMore()
		stream.WriteObjectField("admin")
		stream.WriteRaw(string(doc.Admin))
	}
	stream.WriteObjectEnd()

	if stream.Error != nil {
		return nil, stream.Error
	}
	return append([]byte(nil), stream.Buffer()...), nil
}

// save grava em um arquivo temporário e renomeia, para que uma falha no meio
// da escrita não corrompa o cadastro
func (r *clientJSONRepository) save(doc *registryDocument) error {
	content, err := encodeRegistry(doc)
	if err != nil {
		return errors.Wrap(err, "erro ao serializar cadastro de clientes")
	}

	dir := filepath.Dir(r.path)
	if err := r.fs.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "erro ao criar diretório %s", dir)
	}

	tmp := r.path + ".tmp"
	if err := afero.WriteFile(r.fs, tmp, content, 0o644); err != nil {
		return errors.Wrap(err, "erro ao gravar cadastro de clientes")
	}

	if err := r.fs.Rename(tmp, r.path); err != nil {
		return errors.Wrap(err, "erro ao substituir cadastro de clientes")
	}

	return nil
}

func toDomainClient(code string, entry registryClient) domain.Client {
	client := domain.Client{
		Code:   code,
		Name:   entry.Name,
		Active: entry.Active,
	}

	if createdOn, err := time.Parse(registryDateLayout, entry.CreatedOn); err == nil {
		client.CreatedOn = createdOn
	}

	return client
}
