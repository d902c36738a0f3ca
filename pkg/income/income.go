package income

import (
	"github.com/centava/centava/pkg/cadence"
	"github.com/shopspring/decimal"
)

type Source struct {
	Id   int
	Name string
	// GrossAmount is the amount paid out before deductions.
	GrossAmount decimal.Decimal
	// NetAmount is the take-home amount, never larger than GrossAmount.
	NetAmount decimal.Decimal
	Cadence   cadence.Cadence
	IsActive  bool
}
