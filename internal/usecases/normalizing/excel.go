package normalizing

import (
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Formatos numéricos nativos do Excel que representam datas
var builtInDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

var (
	quotedLiteral  = regexp.MustCompile(`"[^"]*"`)
	bracketSection = regexp.MustCompile(`\[[^\]]*\]`)
	escapedChar    = regexp.MustCompile(`\\.`)
)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999",
	"2006-01-02",
}

// ReadGrid lê as primeiras maxRows linhas da primeira aba do arquivo
func ReadGrid(r io.Reader, maxRows int) (domain.Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao abrir arquivo excel")
	}
	defer func() {
		if err := f.Close(); err != nil {
			logrus.WithError(err).Warn("Erro ao fechar arquivo excel")
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("o arquivo não possui abas")
	}
	sheet := sheets[0]

	reader := &cellReader{file: f, sheet: sheet, date1904: isDate1904(f)}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao ler linhas da aba %s", sheet)
	}
	defer rows.Close()

	grid := make(domain.Grid, 0, maxRows)
	for rowNumber := 1; rowNumber <= maxRows && rows.Next(); rowNumber++ {
		columns, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, errors.Wrapf(err, "erro ao ler a linha %d", rowNumber)
		}

		row := make([]domain.CellValue, len(columns))
		for i, raw := range columns {
			axis, err := excelize.CoordinatesToCellName(i+1, rowNumber)
			if err != nil {
				return nil, err
			}
			row[i] = reader.classify(axis, raw)
		}

		grid = append(grid, row)
	}

	if err := rows.Error(); err != nil {
		return nil, errors.Wrap(err, "erro ao iterar linhas")
	}

	return grid, nil
}

func isDate1904(f *excelize.File) bool {
	props, err := f.GetWorkbookProps()
	if err != nil || props.Date1904 == nil {
		return false
	}
	return *props.Date1904
}

type cellReader struct {
	file     *excelize.File
	sheet    string
	date1904 bool
}

func (c *cellReader) classify(axis, raw string) domain.CellValue {
	if raw == "" {
		return domain.EmptyCell()
	}

	cellType, err := c.file.GetCellType(c.sheet, axis)
	if err != nil {
		return domain.TextCell(raw)
	}

	switch cellType {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		return c.numeric(axis, raw)
	case excelize.CellTypeDate:
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return domain.TimestampCell(t)
			}
		}
		return domain.TextCell(raw)
	default:
		return domain.TextCell(raw)
	}
}

func (c *cellReader) numeric(axis, raw string) domain.CellValue {
	number, err := decimal.NewFromString(raw)
	if err != nil {
		return domain.TextCell(raw)
	}

	if !c.isDateFormatted(axis) {
		return domain.NumberCell(number)
	}

	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return domain.NumberCell(number)
	}

	t, err := excelize.ExcelDateToTime(serial, c.date1904)
	if err != nil {
		return domain.NumberCell(number)
	}

	return domain.TimestampCell(t)
}

func (c *cellReader) isDateFormatted(axis string) bool {
	styleID, err := c.file.GetCellStyle(c.sheet, axis)
	if err != nil || styleID == 0 {
		return false
	}

	style, err := c.file.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}

	if style.CustomNumFmt != nil {
		return isDateFormatCode(*style.CustomNumFmt)
	}

	return builtInDateFormats[style.NumFmt]
}

// isDateFormatCode indica se um código de formato personalizado contém
// componentes de data (ano, mês por extenso ou dia)
func isDateFormatCode(code string) bool {
	code = quotedLiteral.ReplaceAllString(code, "")
	code = bracketSection.ReplaceAllString(code, "")
	code = escapedChar.ReplaceAllString(code, "")
	code = strings.ToLower(code)

	return strings.ContainsAny(code, "yd") || strings.Contains(code, "mmm")
}
