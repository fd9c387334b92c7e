package logexporter

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/DetoxGate/pkg/infra/telemetry"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
)

const ExporterName = "log"

type Config struct {
	Level string `mapstructure:"level"`
}

// Exporter writes decision events as structured log entries.
type Exporter struct {
	logger *logrus.Logger
	level  logrus.Level
}

func NewLogExporter(logger *logrus.Logger) *Exporter {
	return &Exporter{logger: logger, level: logrus.InfoLevel}
}

func (e *Exporter) Name() string {
	return ExporterName
}

func (e *Exporter) ValidateConfig(settings map[string]interface{}) error {
	var conf Config
	if err := mapstructure.Decode(settings, &conf); err != nil {
		return fmt.Errorf("invalid log exporter config: %w", err)
	}
	if conf.Level == "" {
		return nil
	}
	if _, err := logrus.ParseLevel(conf.Level); err != nil {
		return fmt.Errorf("invalid log exporter level: %w", err)
	}
	return nil
}

func (e *Exporter) WithSettings(settings map[string]interface{}) (telemetry.Exporter, error) {
	var conf Config
	if err := mapstructure.Decode(settings, &conf); err != nil {
		return nil, fmt.Errorf("invalid log exporter config: %w", err)
	}
	level := logrus.InfoLevel
	if conf.Level != "" {
		parsed, err := logrus.ParseLevel(conf.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log exporter level: %w", err)
		}
		level = parsed
	}
	return &Exporter{logger: e.logger, level: level}, nil
}

func (e *Exporter) Handle(_ context.Context, evt *telemetry.DecisionEvent) error {
	e.logger.WithFields(logrus.Fields{
		"event_id":   evt.ID,
		"request_id": evt.RequestID,
		"is_toxic":   evt.IsToxic,
		"confidence": evt.Confidence,
		"labels":     evt.Labels,
		"risk_level": evt.RiskLevel,
		"action":     evt.Action,
		"latency_ms": evt.LatencyMs,
		"rewritten":  evt.Rewritten,
		"sarcasm":    evt.SarcasmDetected,
		"normalized": evt.TextWasNormalized,
		"classifier": evt.ClassifierAvailable,
	}).Log(e.level, "detection decision")
	return nil
}

func (e *Exporter) Close() {}
