package detection

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/NeuralTrust/DetoxGate/pkg/analysis/fusion"
	"github.com/NeuralTrust/DetoxGate/pkg/app/rewrite"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/prometheus"
	"github.com/NeuralTrust/DetoxGate/pkg/infra/telemetry"
	"github.com/NeuralTrust/DetoxGate/pkg/utils"
	"github.com/sirupsen/logrus"
)

const (
	classifierAvailable   = "available"
	classifierUnavailable = "unavailable"
	classifierDisabled    = "disabled"
)

// Input is one analysis request. Client fields only feed telemetry.
type Input struct {
	Text           string
	CustomWords    []string
	RequestID      string
	Path           string
	IP             string
	UserAgent      string
	AcceptLanguage string
}

type Report struct {
	Result    fusion.FusedResult `json:"result"`
	Summary   fusion.Summary     `json:"summary"`
	LatencyMs int64              `json:"latency_ms"`
}

type DetoxReport struct {
	Report
	Original   string          `json:"original"`
	Detoxified string          `json:"detoxified"`
	Rewrite    *rewrite.Result `json:"rewrite,omitempty"`
}

//go:generate mockery --name=Service --dir=. --output=./mocks --filename=detection_service_mock.go --case=underscore --with-expecter
type Service interface {
	Detect(ctx context.Context, in Input) Report
	Detox(ctx context.Context, in Input) DetoxReport
	Answer(question string) string
}

type service struct {
	logger         *logrus.Logger
	engine         *fusion.Engine
	rewriter       rewrite.Rewriter
	customWords    []string
	publisher      telemetry.Publisher
	classifierName string
}

// NewService combines fusion, summary and rewriting for the API.
// customWords is the startup dictionary and is matched on every request in
// addition to the request's own words.
func NewService(
	logger *logrus.Logger,
	engine *fusion.Engine,
	rewriter rewrite.Rewriter,
	customWords []string,
	publisher telemetry.Publisher,
	classifierName string,
) Service {
	return &service{
		logger:         logger,
		engine:         engine,
		rewriter:       rewriter,
		customWords:    customWords,
		publisher:      publisher,
		classifierName: classifierName,
	}
}

func (s *service) Detect(ctx context.Context, in Input) Report {
	report, evt := s.detect(ctx, in)
	s.publish(evt)
	return report
}

func (s *service) Detox(ctx context.Context, in Input) DetoxReport {
	report, evt := s.detect(ctx, in)
	out := DetoxReport{
		Report:     report,
		Original:   in.Text,
		Detoxified: in.Text,
	}
	if report.Result.IsToxic && s.rewriter != nil {
		rw := s.rewriter.Rewrite(ctx, in.Text)
		out.Rewrite = &rw
		out.Detoxified = rw.Text
		evt.Rewritten = true
		evt.RewriteStrategy = rw.Strategy
		prometheus.RewritesTotal.WithLabelValues(rw.Strategy).Inc()
	}
	s.publish(evt)
	return out
}

func (s *service) detect(ctx context.Context, in Input) (Report, *telemetry.DecisionEvent) {
	start := time.Now()
	words := s.customWords
	if len(in.CustomWords) > 0 {
		words = append(append(make([]string, 0, len(s.customWords)+len(in.CustomWords)), s.customWords...), in.CustomWords...)
	}

	result := s.engine.Fuse(ctx, in.Text, words)
	summary := fusion.Summarize(result)
	latency := time.Since(start)

	s.record(result, summary)
	s.logger.WithFields(logrus.Fields{
		"request_id": in.RequestID,
		"is_toxic":   result.IsToxic,
		"confidence": result.Confidence,
		"risk_level": summary.RiskLevel,
		"latency_ms": latency.Milliseconds(),
	}).Debug("text analyzed")

	evt := telemetry.NewDecisionEvent()
	evt.RequestID = in.RequestID
	evt.Path = in.Path
	evt.IP = in.IP
	evt.IsToxic = result.IsToxic
	evt.Confidence = result.Confidence
	evt.Labels = append(evt.Labels, result.ToxicLabels...)
	evt.RiskLevel = summary.RiskLevel
	evt.Action = summary.RecommendedAction
	evt.SarcasmDetected = result.IsSarcastic
	evt.TextWasNormalized = result.NormalizationApplied
	evt.ClassifierAvailable = result.ClassifierAvailable
	evt.LatencyMs = latency.Milliseconds()
	evt.Client = utils.ParseUserAgent(in.UserAgent, in.AcceptLanguage)

	return Report{Result: result, Summary: summary, LatencyMs: latency.Milliseconds()}, evt
}

func (s *service) record(result fusion.FusedResult, summary fusion.Summary) {
	if !prometheus.Config.EnableDetections || !result.Enhanced {
		return
	}
	prometheus.DetectionsTotal.WithLabelValues(strconv.FormatBool(result.IsToxic), summary.RiskLevel).Inc()
	prometheus.DetectionConfidence.Observe(result.Confidence)

	status := classifierDisabled
	switch {
	case result.ClassifierAvailable:
		status = classifierAvailable
	case s.engine.HasClassifier():
		status = classifierUnavailable
	}
	prometheus.ClassifierCalls.WithLabelValues(status).Inc()
}

func (s *service) publish(evt *telemetry.DecisionEvent) {
	if s.publisher != nil {
		s.publisher.Publish(evt)
	}
}

// Answer replies to the small set of questions the API knows about.
func (s *service) Answer(question string) string {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "model"):
		if s.classifierName == "" {
			return "No external classifier is configured; detection uses the built-in normalization, sarcasm and contextual analyzers."
		}
		return fmt.Sprintf("This uses the '%s' classifier combined with normalization, sarcasm and contextual analysis.", s.classifierName)
	case strings.Contains(q, "threshold"):
		return fmt.Sprintf("The classification threshold is set at %v.", s.engine.Config().Threshold)
	default:
		return "Ask about the model, threshold, or how toxicity is detected."
	}
}
