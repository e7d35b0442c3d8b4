package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gearguard/gearguard/pkg/models"
	"go.uber.org/zap"
)

// Upstream failure modes for the remote prediction service. All wrap
// ErrUpstream so callers can match the whole family with errors.Is.
var (
	ErrUpstream            = errors.New("prediction service unavailable")
	ErrUpstreamTimeout     = fmt.Errorf("%w: request timed out", ErrUpstream)
	ErrUpstreamUnreachable = fmt.Errorf("%w: unreachable", ErrUpstream)
	ErrMalformedResponse   = fmt.Errorf("%w: malformed response", ErrUpstream)
)

// Gateway calls the remote failure-probability model over HTTP. The remote
// returns only the raw probability; all derived fields are recomputed
// locally so they remain deterministic functions of the probability.
type Gateway struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewGateway creates a gateway for the model endpoint at url.
// The timeout bounds the whole request including connection setup.
func NewGateway(url string, timeout time.Duration, logger *zap.Logger) *Gateway {
	return &Gateway{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// predictRequest is the JSON body sent to the model endpoint.
type predictRequest struct {
	EquipmentID string                `json:"equipment_id"`
	Features    models.SensorFeatures `json:"features"`
}

// predictResponse is the JSON body expected from the model endpoint.
type predictResponse struct {
	FailureProbability *float64 `json:"failure_probability"`
}

// FailureProbability requests a raw failure probability from the remote
// model. No retries: a failed call surfaces immediately as a typed error.
func (g *Gateway) FailureProbability(ctx context.Context, equipmentID string, features models.SensorFeatures) (float64, error) {
	body, err := json.Marshal(predictRequest{EquipmentID: equipmentID, Features: features})
	if err != nil {
		return 0, fmt.Errorf("marshal predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			g.logger.Warn("prediction request timed out",
				zap.String("equipment_id", equipmentID),
				zap.String("url", g.url),
			)
			return 0, ErrUpstreamTimeout
		}
		g.logger.Warn("prediction service unreachable",
			zap.String("equipment_id", equipmentID),
			zap.String("url", g.url),
			zap.Error(err),
		)
		return 0, ErrUpstreamUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain body for connection reuse
		return 0, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var pr predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return 0, ErrMalformedResponse
	}
	if pr.FailureProbability == nil {
		return 0, ErrMalformedResponse
	}
	p := *pr.FailureProbability
	if p < 0 || p > 1 {
		return 0, fmt.Errorf("%w: probability %v out of range", ErrMalformedResponse, p)
	}

	return p, nil
}

// isTimeout reports whether err is a deadline or network timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
