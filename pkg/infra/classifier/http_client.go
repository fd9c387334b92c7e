package classifier

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/NeuralTrust/DetoxGate/pkg/infra/httpx"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"
)

type HTTPSettings struct {
	URL   string `mapstructure:"url"`
	Token string `mapstructure:"token"`
}

// HTTPClient talks to a text-classification inference endpoint that accepts
// {"inputs": text} and answers with a pipeline style label list.
type HTTPClient struct {
	caller         *jsonCaller
	settings       HTTPSettings
	circuitBreaker httpx.CircuitBreaker
	logger         *logrus.Logger
}

func NewHTTPClient(
	settings map[string]interface{},
	client httpx.Client,
	circuitBreaker httpx.CircuitBreaker,
	logger *logrus.Logger,
) (*HTTPClient, error) {
	var cfg HTTPSettings
	if err := mapstructure.Decode(settings, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode http classifier settings: %w", err)
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("http classifier url is required")
	}
	return &HTTPClient{
		caller:         &jsonCaller{client: client, logger: logger, name: ProviderHTTP},
		settings:       cfg,
		circuitBreaker: circuitBreaker,
		logger:         logger,
	}, nil
}

func (c *HTTPClient) Classify(ctx context.Context, text string) ([]LabelScore, error) {
	var result []LabelScore
	var err error

	err = c.circuitBreaker.Execute(func() error {
		result, err = c.executeClassify(ctx, text)
		return err
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.WithError(err).Error("text classification failed (circuit breaker)")
		}
		return nil, err
	}
	return result, nil
}

func (c *HTTPClient) executeClassify(ctx context.Context, text string) ([]LabelScore, error) {
	headers := map[string]string{}
	if c.settings.Token != "" {
		headers["Authorization"] = "Bearer " + c.settings.Token
	}
	body, err := c.caller.post(ctx, c.settings.URL, map[string]string{"inputs": text}, headers)
	if err != nil {
		return nil, err
	}
	return ParseLabelScores(body)
}

// ParseLabelScores accepts [[{label,score}]], [{label,score}] and
// {"scores": {label: score}} payloads.
func ParseLabelScores(body []byte) ([]LabelScore, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(body)
	if err != nil {
		return nil, fmt.Errorf("invalid classifier response: %w", err)
	}

	switch v.Type() {
	case fastjson.TypeArray:
		items := v.GetArray()
		if len(items) > 0 && items[0].Type() == fastjson.TypeArray {
			items = items[0].GetArray()
		}
		scores := make([]LabelScore, 0, len(items))
		for _, item := range items {
			label := string(item.GetStringBytes("label"))
			if label == "" {
				continue
			}
			scores = append(scores, LabelScore{Label: label, Score: item.GetFloat64("score")})
		}
		return scores, nil
	case fastjson.TypeObject:
		if msg := v.GetStringBytes("error"); len(msg) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrFailedClassifierCall, msg)
		}
		obj := v.GetObject("scores")
		if obj == nil {
			return nil, fmt.Errorf("%w: response carries no scores", ErrFailedClassifierCall)
		}
		return objectScores(obj), nil
	default:
		return nil, fmt.Errorf("%w: unexpected response type %s", ErrFailedClassifierCall, v.Type())
	}
}

func objectScores(obj *fastjson.Object) []LabelScore {
	scores := make([]LabelScore, 0, obj.Len())
	obj.Visit(func(key []byte, val *fastjson.Value) {
		scores = append(scores, LabelScore{Label: string(key), Score: val.GetFloat64()})
	})
	sort.Slice(scores, func(i, j int) bool { return scores[i].Label < scores[j].Label })
	return scores
}
