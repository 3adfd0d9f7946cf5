// Package storage organiza os arquivos dos clientes em disco:
//
//	<base>/<código>/datos_YYYYmmdd_HHMMSS.xlsx   planilha vigente
//	<base>/<código>/documentos/*.pdf             documentos do cliente
//	<base>/.staging/<id>.xlsx                    uploads aguardando confirmação
package storage

import (
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const (
	documentsDir      = "documentos"
	stagingDir        = ".staging"
	spreadsheetExt    = ".xlsx"
	spreadsheetPrefix = "datos_"
	documentExt       = ".pdf"

	// SpreadsheetTimestampLayout é o carimbo de tempo usado no nome das planilhas
	SpreadsheetTimestampLayout = "20060102_150405"
)

var (
	ErrInvalidName = errors.New("nome de arquivo inválido")
	ErrNotFound    = errors.New("arquivo não encontrado")
)

type StoredFile struct {
	Name       string
	Size       int64
	ModifiedAt time.Time
}

type FileStore struct {
	fs afero.Fs
}

// NewFileStore cria o diretório base e restringe todas as operações a ele
func NewFileStore(fs afero.Fs, baseDir string) (*FileStore, error) {
	if err := fs.MkdirAll(baseDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "erro ao criar diretório de dados %s", baseDir)
	}

	return &FileStore{fs: afero.NewBasePathFs(fs, baseDir)}, nil
}

// validName rejeita nomes vazios, ocultos ou com separadores de diretório
func validName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.Contains(name, "..")
}

func (s *FileStore) clientDir(code string) (string, error) {
	if !validName(code) {
		return "", errors.Wrapf(ErrInvalidName, "código %q", code)
	}
	return code, nil
}

func (s *FileStore) documentsPath(code string) (string, error) {
	dir, err := s.clientDir(code)
	if err != nil {
		return "", err
	}
	return path.Join(dir, documentsDir), nil
}

// EnsureClient cria os diretórios do cliente
func (s *FileStore) EnsureClient(code string) error {
	docs, err := s.documentsPath(code)
	if err != nil {
		return err
	}
	return s.fs.MkdirAll(docs, 0o755)
}

// RemoveClient apaga todos os arquivos do cliente
func (s *FileStore) RemoveClient(code string) error {
	dir, err := s.clientDir(code)
	if err != nil {
		return err
	}
	return s.fs.RemoveAll(dir)
}

func (s *FileStore) listFiles(dir, ext string) ([]StoredFile, error) {
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "erro ao listar %s", dir)
	}

	files := make([]StoredFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(path.Ext(entry.Name()), ext) {
			continue
		}
		files = append(files, StoredFile{
			Name:       entry.Name(),
			Size:       entry.Size(),
			ModifiedAt: entry.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func (s *FileStore) spreadsheets(code string) ([]StoredFile, error) {
	dir, err := s.clientDir(code)
	if err != nil {
		return nil, err
	}
	return s.listFiles(dir, spreadsheetExt)
}

func (s *FileStore) HasData(code string) (bool, error) {
	files, err := s.spreadsheets(code)
	return len(files) > 0, err
}

func (s *FileStore) HasDocuments(code string) (bool, error) {
	files, err := s.ListDocuments(code)
	return len(files) > 0, err
}

// LatestSpreadsheet devolve o nome da planilha vigente do cliente: a de maior
// nome em ordem lexicográfica, que pelo carimbo de tempo é a mais recente
func (s *FileStore) LatestSpreadsheet(code string) (string, error) {
	files, err := s.spreadsheets(code)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", ErrNotFound
	}
	return files[len(files)-1].Name, nil
}

func (s *FileStore) OpenSpreadsheet(code string) (afero.File, string, error) {
	name, err := s.LatestSpreadsheet(code)
	if err != nil {
		return nil, "", err
	}

	f, err := s.fs.Open(path.Join(code, name))
	if err != nil {
		return nil, "", errors.Wrapf(err, "erro ao abrir planilha %s", name)
	}

	return f, name, nil
}

func stagedPath(id string) (string, error) {
	if !validName(id) {
		return "", errors.Wrapf(ErrInvalidName, "upload %q", id)
	}
	return path.Join(stagingDir, id+spreadsheetExt), nil
}

// Stage grava um upload ainda não confirmado
func (s *FileStore) Stage(id string, r io.Reader) error {
	p, err := stagedPath(id)
	if err != nil {
		return err
	}

	if err := afero.WriteReader(s.fs, p, r); err != nil {
		return errors.Wrap(err, "erro ao gravar upload temporário")
	}
	return nil
}

func (s *FileStore) OpenStaged(id string) (afero.File, error) {
	p, err := stagedPath(id)
	if err != nil {
		return nil, err
	}

	f, err := s.fs.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "erro ao abrir upload temporário")
	}
	return f, nil
}

func (s *FileStore) DiscardStaged(id string) error {
	p, err := stagedPath(id)
	if err != nil {
		return err
	}

	if err := s.fs.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// PromoteStaged move o upload para a pasta do cliente como a nova planilha
// vigente e apaga as planilhas anteriores
func (s *FileStore) PromoteStaged(code, id string, now time.Time) (string, error) {
	src, err := stagedPath(id)
	if err != nil {
		return "", err
	}

	dir, err := s.clientDir(code)
	if err != nil {
		return "", err
	}

	if _, err := s.fs.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", err
	}

	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "erro ao criar diretório do cliente %s", code)
	}

	name := spreadsheetPrefix + now.Format(SpreadsheetTimestampLayout) + spreadsheetExt
	if err := s.fs.Rename(src, path.Join(dir, name)); err != nil {
		return "", errors.Wrap(err, "erro ao mover planilha confirmada")
	}

	previous, err := s.spreadsheets(code)
	if err != nil {
		return name, err
	}

	for _, file := range previous {
		if file.Name == name {
			continue
		}
		if err := s.fs.Remove(path.Join(dir, file.Name)); err != nil {
			logrus.WithError(err).WithField("file", file.Name).Warn("Não foi possível remover planilha anterior")
		}
	}

	return name, nil
}

// PurgeStaged apaga uploads não confirmados modificados antes de cutoff
func (s *FileStore) PurgeStaged(cutoff time.Time) (int, error) {
	files, err := s.listFiles(stagingDir, spreadsheetExt)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, file := range files {
		if !file.ModifiedAt.Before(cutoff) {
			continue
		}
		if err := s.fs.Remove(path.Join(stagingDir, file.Name)); err != nil && !os.IsNotExist(err) {
			return removed, errors.Wrapf(err, "erro ao remover upload %s", file.Name)
		}
		removed++
	}

	return removed, nil
}

func (s *FileStore) ListDocuments(code string) ([]StoredFile, error) {
	dir, err := s.documentsPath(code)
	if err != nil {
		return nil, err
	}
	return s.listFiles(dir, documentExt)
}

func (s *FileStore) documentPath(code, name string) (string, error) {
	dir, err := s.documentsPath(code)
	if err != nil {
		return "", err
	}
	if !validName(name) || !strings.EqualFold(path.Ext(name), documentExt) {
		return "", errors.Wrapf(ErrInvalidName, "documento %q", name)
	}
	return path.Join(dir, name), nil
}

// SaveDocument grava o documento, substituindo um existente com o mesmo nome
func (s *FileStore) SaveDocument(code, name string, r io.Reader) error {
	p, err := s.documentPath(code, name)
	if err != nil {
		return err
	}

	tmp := p + ".tmp"
	if err := afero.WriteReader(s.fs, tmp, r); err != nil {
		return errors.Wrapf(err, "erro ao gravar documento %s", name)
	}

	if err := s.fs.Rename(tmp, p); err != nil {
		_ = s.fs.Remove(tmp)
		return errors.Wrapf(err, "erro ao salvar documento %s", name)
	}

	return nil
}

func (s *FileStore) OpenDocument(code, name string) (afero.File, StoredFile, error) {
	p, err := s.documentPath(code, name)
	if err != nil {
		return nil, StoredFile{}, err
	}

	info, err := s.fs.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, StoredFile{}, ErrNotFound
		}
		return nil, StoredFile{}, err
	}

	f, err := s.fs.Open(p)
	if err != nil {
		return nil, StoredFile{}, err
	}

	return f, StoredFile{Name: info.Name(), Size: info.Size(), ModifiedAt: info.ModTime()}, nil
}

func (s *FileStore) DeleteDocument(code, name string) error {
	p, err := s.documentPath(code, name)
	if err != nil {
		return err
	}

	if err := s.fs.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
