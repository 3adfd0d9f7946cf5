// Package normalizingtest monta planilhas no layout do cliente para testes.
package normalizingtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// Column é uma coluna mensal da planilha. Valores nil ficam em branco.
type Column struct {
	Header  any
	Sales   any
	Taxable any
	Exempt  any
	Payroll any
	Margin  any
}

// Month cria uma coluna com cabeçalho de data e todos os valores preenchidos
func Month(year int, month time.Month, sales, taxable, exempt, payroll, margin float64) Column {
	return Column{
		Header:  time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
		Sales:   sales,
		Taxable: taxable,
		Exempt:  exempt,
		Payroll: payroll,
		Margin:  margin,
	}
}

// Workbook devolve os bytes de um .xlsx com as colunas a partir da coluna C
func Workbook(t testing.TB, columns ...Column) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	labels := []string{"Mes", "Ventas", "Compras CF", "Compras Exentas", "Sueldos y CS", "Margen Operativo"}
	for i, label := range labels {
		require.NoError(t, f.SetCellValue(sheet, cell(t, 2, i+3), label))
	}
	require.NoError(t, f.SetCellValue(sheet, "A1", "Planilha de teste"))

	for i, column := range columns {
		values := []any{column.Header, column.Sales, column.Taxable, column.Exempt, column.Payroll, column.Margin}
		for j, value := range values {
			if value == nil {
				continue
			}
			require.NoError(t, f.SetCellValue(sheet, cell(t, i+3, j+3), value))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func cell(t testing.TB, col, row int) string {
	t.Helper()

	name, err := excelize.CoordinatesToCellName(col, row)
	require.NoError(t, err)
	return name
}
