package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
	CellTimestamp
)

// CellValue é o conteúdo tipado de uma célula de planilha
type CellValue struct {
	Kind   CellKind
	Number decimal.Decimal
	Text   string
	Time   time.Time
}

// Grid é a grade de células de uma planilha (linhas e colunas a partir de zero)
type Grid [][]CellValue

func EmptyCell() CellValue {
	return CellValue{Kind: CellEmpty}
}

func NumberCell(n decimal.Decimal) CellValue {
	return CellValue{Kind: CellNumber, Number: n}
}

func TextCell(s string) CellValue {
	return CellValue{Kind: CellText, Text: s}
}

func TimestampCell(t time.Time) CellValue {
	return CellValue{Kind: CellTimestamp, Time: t}
}

func (c CellValue) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// String devolve a representação textual da célula
func (c CellValue) String() string {
	switch c.Kind {
	case CellNumber:
		return c.Number.String()
	case CellText:
		return c.Text
	case CellTimestamp:
		return c.Time.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// Cell devolve a célula na posição informada, ou uma célula vazia quando a
// posição está fora da grade
func (g Grid) Cell(row, col int) CellValue {
	if row < 0 || row >= len(g) {
		return EmptyCell()
	}
	if col < 0 || col >= len(g[row]) {
		return EmptyCell()
	}
	return g[row][col]
}
