package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"coachtrack/fitness-api/internal/apperror"
	"coachtrack/fitness-api/internal/config"
)

// PredictFeatures is the feature vector forwarded to the external
// weight-prediction service. Field names follow its wire contract.
type PredictFeatures struct {
	LastWeight    float64 `json:"last_weight"`
	LastWaist     float64 `json:"last_waist"`
	RollingMean7  float64 `json:"rolling_mean_7"`
	RollingMean14 float64 `json:"rolling_mean_14"`
	Delta7        float64 `json:"delta_7"`
	DayOfWeek     int     `json:"day_of_week"`
}

// MLHealth is the prediction service's liveness response.
type MLHealth struct {
	OK bool `json:"ok"`
}

// Prediction is the prediction service's response payload.
type Prediction struct {
	PredictedWeightKg float64 `json:"predicted_weight_kg"`
}

// MLService is a thin proxy to the external weight-prediction service.
// Calls are bounded by the configured timeout and never retried; upstream
// 5xx, timeouts, and transport failures all surface as 502 with
// INTERNAL_ERROR, while 4xx responses pass the upstream detail through
// as a validation failure.
type MLService interface {
	Health(ctx context.Context) (*MLHealth, error)
	PredictWeight(ctx context.Context, features PredictFeatures) (*Prediction, error)
}

// mlService implements the MLService interface.
type mlService struct {
	baseURL    string
	httpClient *http.Client
}

// NewMLService creates a new instance of mlService.
func NewMLService(cfg config.MLConfig) MLService {
	return &mlService{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Health proxies the prediction service's liveness endpoint.
func (s *mlService) Health(ctx context.Context) (*MLHealth, error) {
	var health MLHealth
	if err := s.request(ctx, http.MethodGet, "/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// PredictWeight forwards the feature vector and returns the prediction.
func (s *mlService) PredictWeight(ctx context.Context, features PredictFeatures) (*Prediction, error) {
	payload := struct {
		Features PredictFeatures `json:"features"`
	}{Features: features}

	var prediction Prediction
	if err := s.request(ctx, http.MethodPost, "/predict-weight", payload, &prediction); err != nil {
		return nil, err
	}
	return &prediction, nil
}

func (s *mlService) request(ctx context.Context, method, path string, payload, out any) error {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return apperror.Internal("Failed to encode ML request", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return apperror.Internal("Failed to build ML request", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return apperror.Upstream("ML API timeout", err)
		}
		return apperror.Upstream("ML API unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return apperror.Upstream("ML API unavailable", nil)
	}
	if resp.StatusCode >= 400 {
		// 4xx-shaped upstream failures surface their detail to the caller.
		var detail struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&detail); err == nil && detail.Detail != "" {
			return apperror.Validation(detail.Detail)
		}
		return apperror.Validation(fmt.Sprintf("ML API error (%d)", resp.StatusCode))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperror.Upstream("ML API returned malformed response", err)
		}
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
