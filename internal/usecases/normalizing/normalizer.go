// Package normalizing converte a grade de células de uma planilha no ledger mensal.
package normalizing

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
)

// Layout fixo da planilha (índices a partir de zero)
const (
	headerRow           = 2
	salesRow            = 3
	taxablePurchasesRow = 4
	exemptPurchasesRow  = 5
	payrollRow          = 6
	operatingMarginRow  = 7
	firstDataColumn     = 2
	minRows             = operatingMarginRow + 1
	periodPrefixLength  = 7
)

// DefaultMaxMonths é o limite de colunas mensais aceito por padrão
const DefaultMaxMonths = 240

var ErrMalformedSpreadsheet = errors.New("planilha mal formada")

// SpreadsheetParser lê uma planilha completa e devolve o ledger
type SpreadsheetParser interface {
	ParseWorkbook(r io.Reader) (domain.Ledger, error)
}

type Normalizer struct {
	maxMonths int
}

func NewNormalizer(maxMonths int) *Normalizer {
	if maxMonths <= 0 {
		maxMonths = DefaultMaxMonths
	}
	return &Normalizer{maxMonths: maxMonths}
}

var defaultNormalizer = NewNormalizer(DefaultMaxMonths)

// Normalize converte a grade usando o limite padrão de meses
func Normalize(grid domain.Grid) (domain.Ledger, error) {
	return defaultNormalizer.Normalize(grid)
}

// ParseWorkbook lê a primeira aba do .xlsx e normaliza. Qualquer falha de
// leitura é reportada como ErrMalformedSpreadsheet.
func (n *Normalizer) ParseWorkbook(r io.Reader) (domain.Ledger, error) {
	grid, err := ReadGrid(r, minRows)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedSpreadsheet, "erro ao ler planilha: %v", err)
	}

	return n.Normalize(grid)
}

// Normalize converte a grade de células no ledger mensal.
//
// A linha 2, a partir da coluna 2, contém os períodos. N é a quantidade de
// células não vazias nessa faixa e cada linha de dados é recortada em
// [2, 2+N), mesmo que existam lacunas no cabeçalho.
func (n *Normalizer) Normalize(grid domain.Grid) (domain.Ledger, error) {
	if len(grid) < minRows {
		return nil, errors.Wrapf(ErrMalformedSpreadsheet, "a planilha tem %d linhas, mínimo esperado %d", len(grid), minRows)
	}

	periods := make([]domain.Period, 0)
	for col := firstDataColumn; col < len(grid[headerRow]); col++ {
		cell := grid.Cell(headerRow, col)
		if cell.IsEmpty() {
			continue
		}
		periods = append(periods, periodFromCell(cell))
	}

	if len(periods) == 0 {
		return nil, errors.Wrap(ErrMalformedSpreadsheet, "nenhum período encontrado na linha de cabeçalho")
	}

	if len(periods) > n.maxMonths {
		return nil, errors.Wrapf(ErrMalformedSpreadsheet, "a planilha tem %d meses, máximo permitido %d", len(periods), n.maxMonths)
	}

	seen := make(map[domain.Period]struct{}, len(periods))
	for _, period := range periods {
		if _, ok := seen[period]; ok {
			return nil, errors.Wrapf(ErrMalformedSpreadsheet, "período duplicado: %s", period)
		}
		seen[period] = struct{}{}
	}

	ledger := make(domain.Ledger, 0, len(periods))
	for i, period := range periods {
		col := firstDataColumn + i
		ledger = append(ledger, domain.MonthlyRecord{
			Period:                  period,
			Sales:                   coerce(grid.Cell(salesRow, col)),
			TaxablePurchases:        coerce(grid.Cell(taxablePurchasesRow, col)),
			ExemptPurchases:         coerce(grid.Cell(exemptPurchasesRow, col)),
			PayrollAndContributions: coerce(grid.Cell(payrollRow, col)),
			OperatingMargin:         coerce(grid.Cell(operatingMarginRow, col)),
		})
	}

	return ledger, nil
}

func periodFromCell(cell domain.CellValue) domain.Period {
	if cell.Kind == domain.CellTimestamp {
		return domain.PeriodOf(cell.Time)
	}

	runes := []rune(cell.String())
	if len(runes) > periodPrefixLength {
		runes = runes[:periodPrefixLength]
	}
	return domain.Period(string(runes))
}

// coerce converte uma célula de dados em número; qualquer coisa que não seja
// numérica vira valor ausente
func coerce(cell domain.CellValue) decimal.NullDecimal {
	switch cell.Kind {
	case domain.CellNumber:
		return decimal.NewNullDecimal(cell.Number)
	case domain.CellText:
		value, err := decimal.NewFromString(strings.TrimSpace(cell.Text))
		if err != nil {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(value)
	default:
		return decimal.NullDecimal{}
	}
}
