package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const handleTimeout = 5 * time.Second

// Publisher hands decision events to the configured exporters off the
// request path.
//
//go:generate mockery --name=Publisher --dir=. --output=./mocks --filename=publisher_mock.go --case=underscore --with-expecter
type Publisher interface {
	Publish(evt *DecisionEvent)
	StartWorkers(n int)
	Shutdown()
}

type worker struct {
	logger    *logrus.Logger
	exporters []Exporter
	taskChan  chan *DecisionEvent
	wg        sync.WaitGroup

	// mu guards closed and the close of taskChan against in-flight sends.
	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

func NewWorker(logger *logrus.Logger, exporters []Exporter, queueSize int) Publisher {
	if queueSize <= 0 {
		queueSize = 1000
	}
	return &worker{
		logger:    logger,
		exporters: exporters,
		taskChan:  make(chan *DecisionEvent, queueSize),
	}
}

func (w *worker) StartWorkers(n int) {
	if len(w.exporters) == 0 {
		return
	}
	for i := 0; i < n; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for evt := range w.taskChan {
				w.export(evt)
			}
		}()
	}
}

func (w *worker) Publish(evt *DecisionEvent) {
	if evt == nil || len(w.exporters) == 0 {
		return
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}
	select {
	case w.taskChan <- evt:
	default:
		w.logger.WithField("event_id", evt.ID).Warn("telemetry queue is full, dropping event")
	}
}

// Shutdown drains queued events and closes the exporters.
func (w *worker) Shutdown() {
	w.once.Do(func() {
		w.logger.Info("shutting down telemetry workers")
		w.mu.Lock()
		w.closed = true
		close(w.taskChan)
		w.mu.Unlock()
		w.wg.Wait()
		for _, exp := range w.exporters {
			exp.Close()
		}
		w.logger.Info("telemetry workers stopped")
	})
}

func (w *worker) export(evt *DecisionEvent) {
	for _, exp := range w.exporters {
		ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
		err := exp.Handle(ctx, evt)
		cancel()
		if err != nil {
			w.logger.WithFields(logrus.Fields{
				"exporter": exp.Name(),
				"event_id": evt.ID,
			}).WithError(err).Error("exporter failed")
		}
	}
}
