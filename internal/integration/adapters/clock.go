package adapters

import (
	"time"

	"github.com/condo-portal/ledger/internal/application/adapter"
)

type systemClock struct{}

// NewSystemClock returns a Clock backed by the system time.
func NewSystemClock() adapter.Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}
