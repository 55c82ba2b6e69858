// Package clock wraps github.com/benbjohnson/clock so the store and the rate
// limiter can be driven by a mock clock in tests.
package clock

import (
	bclock "github.com/benbjohnson/clock"
)

type (
	Clock  = bclock.Clock
	Mock   = bclock.Mock
	Ticker = bclock.Ticker
)

// New returns a clock backed by the system time.
func New() Clock {
	return bclock.New()
}

// NewMock returns a mock clock set to the Unix epoch.
func NewMock() *Mock {
	return bclock.NewMock()
}
