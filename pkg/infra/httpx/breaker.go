package httpx

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

type CircuitBreaker interface {
	Execute(fn func() error) error
}

type BreakerSettings struct {
	Name        string
	Timeout     time.Duration
	MaxFailures uint32
	MaxRequests uint32
}

type circuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
}

// NewCircuitBreaker trips after MaxFailures consecutive failures and stays
// open for Timeout before letting MaxRequests probes through.
func NewCircuitBreaker(settings BreakerSettings, logger *logrus.Logger) CircuitBreaker {
	maxFailures := settings.MaxFailures
	if maxFailures == 0 {
		maxFailures = 1
	}
	maxRequests := settings.MaxRequests
	if maxRequests == 0 {
		maxRequests = 1
	}
	return &circuitBreaker{
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        settings.Name,
			MaxRequests: maxRequests,
			Timeout:     settings.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				if logger != nil {
					logger.WithFields(logrus.Fields{
						"breaker": name,
						"from":    from.String(),
						"to":      to.String(),
					}).Warn("circuit breaker state changed")
				}
			},
		}),
	}
}

func (c *circuitBreaker) Execute(fn func() error) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if err != nil {
		return fmt.Errorf("breaker (%s): %w", c.breaker.Name(), err)
	}
	return nil
}
