package analyzing

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/vfg2006/accounting-dashboard-api/internal/domain"
)

// RangePolicy define o que fazer quando o mês inicial é posterior ao final
type RangePolicy int

const (
	RejectWithError RangePolicy = iota
	UseFullLedger
)

// ParseRangePolicy aceita "reject" ou "full"; qualquer outro valor é reject
func ParseRangePolicy(value string) RangePolicy {
	if strings.EqualFold(strings.TrimSpace(value), "full") {
		return UseFullLedger
	}
	return RejectWithError
}

func (p RangePolicy) String() string {
	if p == UseFullLedger {
		return "full"
	}
	return "reject"
}

// SelectRange devolve o trecho contíguo e inclusivo [from, to] do ledger.
// Períodos vazios assumem o primeiro e o último mês.
func SelectRange(ledger domain.Ledger, from, to domain.Period, policy RangePolicy) (domain.Ledger, error) {
	if len(ledger) == 0 {
		return nil, ErrEmptyRange
	}

	start := 0
	if from != "" {
		start = ledger.IndexOf(from)
		if start < 0 {
			return nil, errors.Wrapf(ErrUnknownPeriod, "mês inicial %s", from)
		}
	}

	end := len(ledger) - 1
	if to != "" {
		end = ledger.IndexOf(to)
		if end < 0 {
			return nil, errors.Wrapf(ErrUnknownPeriod, "mês final %s", to)
		}
	}

	if start > end {
		if policy == UseFullLedger {
			return ledger.Slice(0, len(ledger)), nil
		}
		return nil, errors.Wrapf(ErrInvertedRange, "%s > %s", from, to)
	}

	return ledger.Slice(start, end+1), nil
}
