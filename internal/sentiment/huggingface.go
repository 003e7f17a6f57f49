package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"sentimentcsv/internal/retry"
)

const (
	DefaultHFBaseURL       = "https://api-inference.huggingface.co/models"
	DefaultHFModel         = "cardiffnlp/twitter-roberta-base-sentiment-latest"
	DefaultHFFallbackModel = "distilbert/distilbert-base-uncased-finetuned-sst-2-english"

	// maxTokens is the token-level truncation requested from the model server.
	maxTokens = 512
	probeText = "warm-up"

	// maxModelWait caps how long a loading model may ask us to wait.
	maxModelWait = time.Minute
)

// HuggingFaceConfig configures the Hugging Face inference classifier.
type HuggingFaceConfig struct {
	BaseURL       string
	Token         string
	Model         string
	FallbackModel string

	MaxTextLength     int     // runes sent per text; 0 sends the whole text
	RequestsPerSecond float64 // <= 0 means unlimited
	MaxAttempts       int
	Timeout           time.Duration

	HTTPClient *http.Client
	Clock      clockwork.Clock
	Logger     *zap.Logger
}

// HuggingFace classifies text with a hosted three-class sentiment model.
type HuggingFace struct {
	cfg     HuggingFaceConfig
	model   string
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

type hfRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Options    map[string]any `json:"options,omitempty"`
}

type hfPrediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type hfError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

// StatusError is a non-200 answer from the inference endpoint. Wait is the
// delay the server suggested, from estimated_time or Retry-After.
type StatusError struct {
	Model      string
	StatusCode int
	Message    string
	Wait       time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("model %s: HTTP %d: %s", e.Model, e.StatusCode, e.Message)
}

// RetryAfter reports the server-suggested wait to the retry policy.
func (e *StatusError) RetryAfter() time.Duration { return e.Wait }

// NewHuggingFace loads the configured model by sending a probe request. When the
// primary model cannot be loaded the fallback model is tried once; if that fails
// too the error is returned and the caller should abort.
func NewHuggingFace(ctx context.Context, cfg HuggingFaceConfig) (*HuggingFace, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultHFBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultHFModel
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	h := &HuggingFace{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.With(zap.String("classifier", "huggingface")),
	}

	h.logger.Info("Loading sentiment model", zap.String("model", cfg.Model))
	err := h.probe(ctx, cfg.Model)
	if err == nil {
		h.model = cfg.Model
		h.logger.Info("Model loaded", zap.String("model", h.model))
		return h, nil
	}
	if cfg.FallbackModel == "" || cfg.FallbackModel == cfg.Model {
		return nil, fmt.Errorf("load model %s: %w", cfg.Model, err)
	}

	h.logger.Warn("Primary model unavailable, using fallback model",
		zap.String("model", cfg.Model),
		zap.String("fallback", cfg.FallbackModel),
		zap.Error(err))
	if ferr := h.probe(ctx, cfg.FallbackModel); ferr != nil {
		return nil, fmt.Errorf("load model %s: %v; fallback %s: %w", cfg.Model, err, cfg.FallbackModel, ferr)
	}
	h.model = cfg.FallbackModel
	h.logger.Info("Fallback model loaded", zap.String("model", h.model))
	return h, nil
}

// Name identifies the strategy in logs and reports.
func (h *HuggingFace) Name() string { return "huggingface" }

// Model is the model actually in use after start-up.
func (h *HuggingFace) Model() string { return h.model }

// Classify returns the label of the highest-scoring prediction.
func (h *HuggingFace) Classify(ctx context.Context, text string) (Label, error) {
	preds, err := h.infer(ctx, h.model, Truncate(text, h.cfg.MaxTextLength))
	if err != nil {
		return Neutral, err
	}
	best := preds[0]
	for _, p := range preds[1:] {
		if p.Score > best.Score {
			best = p
		}
	}
	return ParseLabel(best.Label), nil
}

func (h *HuggingFace) probe(ctx context.Context, model string) error {
	_, err := h.infer(ctx, model, probeText)
	return err
}

func (h *HuggingFace) infer(ctx context.Context, model, text string) ([]hfPrediction, error) {
	body, err := json.Marshal(hfRequest{
		Inputs:     text,
		Parameters: map[string]any{"truncation": true, "max_length": maxTokens},
		Options:    map[string]any{"wait_for_model": true},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	url := strings.TrimRight(h.cfg.BaseURL, "/") + "/" + model

	policy := retry.Policy{
		MaxAttempts:    h.cfg.MaxAttempts,
		InitialBackoff: 500 * time.Millisecond,
		LongBackoff:    5 * time.Second,
		MaxBackoff:     maxModelWait,
		Clock:          h.cfg.Clock,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			h.logger.Debug("Retrying inference request",
				zap.String("model", model),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(err))
		},
	}
	return retry.Do(ctx, policy, classifyHTTPError, func() ([]hfPrediction, error) {
		if err := h.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return h.post(ctx, model, url, body)
	})
}

func (h *HuggingFace) post(ctx context.Context, model, url string, body []byte) ([]hfPrediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+h.cfg.Token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		se := &StatusError{Model: model, StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		var e hfError
		if json.Unmarshal(raw, &e) == nil {
			if e.Error != "" {
				se.Message = e.Error
			}
			if e.EstimatedTime > 0 {
				se.Wait = time.Duration(e.EstimatedTime * float64(time.Second))
			}
		}
		if se.Wait == 0 {
			if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
				se.Wait = time.Duration(secs) * time.Second
			}
		}
		return nil, se
	}
	return decodePredictions(raw)
}

// decodePredictions accepts both the nested [[...]] shape returned for a single
// input and the flat [...] shape.
func decodePredictions(raw []byte) ([]hfPrediction, error) {
	var nested [][]hfPrediction
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return nested[0], nil
	}
	var flat []hfPrediction
	if err := json.Unmarshal(raw, &flat); err == nil && len(flat) > 0 {
		return flat, nil
	}
	return nil, fmt.Errorf("unexpected inference response: %.200s", raw)
}

func classifyHTTPError(err error) retry.Action {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return retry.Stop
	}
	var se *StatusError
	if errors.As(err, &se) {
		switch {
		case se.StatusCode == http.StatusTooManyRequests, se.StatusCode == http.StatusServiceUnavailable:
			return retry.After
		case se.StatusCode >= 500:
			return retry.Retry
		default:
			return retry.Stop
		}
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return retry.Retry
	}
	return retry.Stop
}
