package classifier

import (
	"context"
	"errors"
	"time"

	"github.com/NeuralTrust/DetoxGate/pkg/infra/httpx"
)

const (
	ProviderHTTP    = "http"
	ProviderOpenAI  = "openai"
	ProviderAzure   = "azure"
	ProviderBedrock = "bedrock"
	ProviderNone    = "none"
)

var (
	ErrClassifierUnavailable = errors.New("classifier unavailable")
	ErrFailedClassifierCall  = errors.New("classifier service call failed")
	ErrUnsupportedProvider   = errors.New("unsupported classifier provider")
)

// LabelScore is one entry of a classifier's per-label output.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=classifier_client_mock.go --case=underscore --with-expecter
type Client interface {
	Classify(ctx context.Context, text string) ([]LabelScore, error)
}

type Config struct {
	Provider string
	Timeout  time.Duration
	Breaker  httpx.BreakerSettings
	Settings map[string]interface{}
}
