package analyzing

import "github.com/pkg/errors"

var (
	ErrEmptyRange    = errors.New("intervalo sem meses")
	ErrInvertedRange = errors.New("intervalo invertido: o mês inicial é posterior ao final")
	ErrUnknownPeriod = errors.New("período inexistente na planilha")
)
