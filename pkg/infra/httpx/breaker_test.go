package httpx_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/NeuralTrust/DetoxGate/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
)

func newBreaker(name string, timeout time.Duration, maxFailures uint32) httpx.CircuitBreaker {
	return httpx.NewCircuitBreaker(httpx.BreakerSettings{
		Name:        name,
		Timeout:     timeout,
		MaxFailures: maxFailures,
	}, logrus.New())
}

func TestCircuitBreaker_Execute(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		b := newBreaker("ok", time.Second, 3)
		assert.NoError(t, b.Execute(func() error { return nil }))
	})

	t.Run("failure is wrapped with breaker name", func(t *testing.T) {
		b := newBreaker("classifier", time.Second, 3)
		boom := errors.New("boom")
		err := b.Execute(func() error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "breaker (classifier)")
	})

	t.Run("opens after consecutive failures", func(t *testing.T) {
		b := newBreaker("trip", time.Minute, 2)
		boom := errors.New("boom")
		_ = b.Execute(func() error { return boom })
		_ = b.Execute(func() error { return boom })

		called := false
		err := b.Execute(func() error {
			called = true
			return nil
		})
		assert.False(t, called)
		assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	})

	t.Run("recovers after timeout", func(t *testing.T) {
		b := newBreaker("recover", 20*time.Millisecond, 1)
		_ = b.Execute(func() error { return errors.New("boom") })
		assert.ErrorIs(t, b.Execute(func() error { return nil }), gobreaker.ErrOpenState)

		time.Sleep(40 * time.Millisecond)
		assert.NoError(t, b.Execute(func() error { return nil }))
	})

	t.Run("zero max failures trips on first failure", func(t *testing.T) {
		b := newBreaker("zero", time.Minute, 0)
		_ = b.Execute(func() error { return errors.New("boom") })
		assert.ErrorIs(t, b.Execute(func() error { return nil }), gobreaker.ErrOpenState)
	})
}

func TestCircuitBreaker_Concurrent(t *testing.T) {
	b := newBreaker("concurrent", time.Second, 100)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, b.Execute(func() error { return nil }))
		}()
	}
	wg.Wait()
}
