package telemetry

import (
	"time"

	"github.com/NeuralTrust/DetoxGate/pkg/utils"
	"github.com/google/uuid"
)

const DecisionEventType = "detection"

// DecisionEvent is published once per detection request.
type DecisionEvent struct {
	ID                  string               `json:"id"`
	Type                string               `json:"type"`
	RequestID           string               `json:"request_id,omitempty"`
	Timestamp           int64                `json:"timestamp"`
	Path                string               `json:"path,omitempty"`
	IP                  string               `json:"user_ip,omitempty"`
	IsToxic             bool                 `json:"is_toxic"`
	Confidence          float64              `json:"confidence"`
	Labels              []string             `json:"labels"`
	RiskLevel           string               `json:"risk_level"`
	Action              string               `json:"action"`
	SarcasmDetected     bool                 `json:"sarcasm_detected"`
	TextWasNormalized   bool                 `json:"text_was_normalized"`
	ClassifierAvailable bool                 `json:"classifier_available"`
	Rewritten           bool                 `json:"rewritten,omitempty"`
	RewriteStrategy     string               `json:"rewrite_strategy,omitempty"`
	LatencyMs           int64                `json:"latency_ms"`
	Client              *utils.UserAgentInfo `json:"client,omitempty"`
}

func NewDecisionEvent() *DecisionEvent {
	return &DecisionEvent{
		ID:        uuid.NewString(),
		Type:      DecisionEventType,
		Timestamp: time.Now().Unix(),
		Labels:    []string{},
	}
}
