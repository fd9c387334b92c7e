package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/NeuralTrust/DetoxGate/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
)

type jsonCaller struct {
	client httpx.Client
	logger *logrus.Logger
	name   string
}

func (c *jsonCaller) post(ctx context.Context, url string, payload any, headers map[string]string) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", c.name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", c.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.WithError(err).Errorf("failed to call %s classifier", c.name)
		}
		return nil, fmt.Errorf("failed to call %s classifier: %w", c.name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s response read error: %w", c.name, err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"classifier":  c.name,
		}).Error("classifier returned non-200 status")
		return nil, fmt.Errorf("%w: status %d", ErrFailedClassifierCall, resp.StatusCode)
	}
	return respBody, nil
}
