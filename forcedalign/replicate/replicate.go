// Package replicate implements forced alignment with a WhisperX model hosted
// on Replicate.
//
// A prediction is created with "Prefer: wait" so short clips finish in the
// create call. Longer ones are polled until they reach a terminal state.
// When the caller's context ends first the prediction is cancelled so it
// stops consuming credits.
package replicate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/kbukum/aligner/errors"
	"github.com/kbukum/aligner/forcedalign"
	"github.com/kbukum/aligner/httpclient"
	"github.com/kbukum/aligner/logger"
	"github.com/kbukum/aligner/provider"
	"github.com/kbukum/aligner/version"
)

// ProviderName is the registered name of the Replicate provider.
const ProviderName = "replicate"

// TokenSetting names the credential in NotConfigured errors.
const TokenSetting = "REPLICATE_API_TOKEN"

const cancelTimeout = 10 * time.Second

// Prediction states reported by the Replicate API.
const (
	statusStarting   = "starting"
	statusProcessing = "processing"
	statusSucceeded  = "succeeded"
	statusFailed     = "failed"
	statusCanceled   = "canceled"
)

// Provider calls WhisperX on Replicate.
type Provider struct {
	cfg    Config
	client *httpclient.Client
	log    *logger.Logger
}

var _ forcedalign.Provider = (*Provider)(nil)

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the provider logger.
func WithLogger(log *logger.Logger) Option {
	return func(p *Provider) { p.log = log }
}

// New creates a Provider.
func New(cfg Config, opts ...Option) (*Provider, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := httpclient.New(httpclient.Config{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.HTTPTimeout,
		UserAgent: "aligner/" + version.Get().Short(),
		Auth:      httpclient.BearerAuth(cfg.APIToken),
		TLS:       cfg.TLS,
	})
	if err != nil {
		return nil, fmt.Errorf("replicate: %w", err)
	}
	p := &Provider{cfg: cfg, client: client}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Get(ProviderName)
	}
	return p, nil
}

// Factory returns a provider.Factory that builds a Provider from a raw
// configuration section.
func Factory(opts ...Option) provider.Factory[forcedalign.Provider] {
	return func(raw map[string]any) (forcedalign.Provider, error) {
		cfg, err := DecodeConfig(raw)
		if err != nil {
			return nil, err
		}
		return New(cfg, opts...)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether an API token is configured.
func (p *Provider) IsAvailable(_ context.Context) bool { return p.cfg.APIToken != "" }

// Execute runs one prediction and decodes its word stream.
func (p *Provider) Execute(ctx context.Context, req forcedalign.Request) (*forcedalign.Response, error) {
	if p.cfg.APIToken == "" {
		return nil, apperrors.NotConfigured(TokenSetting)
	}

	pred, err := p.create(ctx, req)
	if err != nil {
		return nil, p.classify(ctx, err)
	}
	log := p.log.WithContext(ctx).WithFields(logger.Fields("prediction_id", pred.ID))
	log.Debug("prediction created", logger.Fields(logger.FieldStatus, pred.Status))

	id := pred.ID
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()
	for !pred.terminal() {
		select {
		case <-ctx.Done():
			p.cancel(ctx, id)
			return nil, apperrors.ProviderTimeout(ProviderName, ctx.Err()).WithDetail("prediction_id", id)
		case <-ticker.C:
		}
		if pred, err = p.get(ctx, id); err != nil {
			if ctx.Err() != nil {
				p.cancel(ctx, id)
			}
			return nil, p.classify(ctx, err)
		}
	}
	log.Debug("prediction finished", logger.Fields(
		logger.FieldStatus, pred.Status,
		"predict_time_s", pred.Metrics.PredictTime,
	))

	if pred.Status != statusSucceeded {
		// Failed and canceled predictions are final.
		e := apperrors.ProviderFailure(ProviderName, errors.New(pred.errorMessage()))
		e.Retryable = false
		return nil, e.WithDetail("prediction_id", id).WithDetail(logger.FieldStatus, pred.Status)
	}

	output, err := p.output(ctx, pred.Output)
	if err != nil {
		return nil, p.classify(ctx, err)
	}
	resp, err := forcedalign.DecodeWhisperX(output)
	if err != nil {
		e := apperrors.ProviderFailure(ProviderName, err)
		e.Retryable = false
		return nil, e.WithDetail("prediction_id", id)
	}
	if resp.Language == "" {
		resp.Language = req.Language
	}
	return resp, nil
}

type prediction struct {
	ID      string          `json:"id"`
	Status  string          `json:"status"`
	Output  json.RawMessage `json:"output"`
	Error   json.RawMessage `json:"error"`
	Metrics struct {
		PredictTime float64 `json:"predict_time"`
	} `json:"metrics"`
}

func (p *prediction) terminal() bool {
	switch p.Status {
	case statusSucceeded, statusFailed, statusCanceled:
		return true
	}
	return false
}

func (p *prediction) errorMessage() string {
	var msg string
	if json.Unmarshal(p.Error, &msg) == nil && msg != "" {
		return msg
	}
	if len(p.Error) > 0 && string(p.Error) != "null" {
		return string(p.Error)
	}
	return "prediction " + p.Status
}

type createRequest struct {
	Version string         `json:"version,omitempty"`
	Input   map[string]any `json:"input"`
}

func (p *Provider) create(ctx context.Context, req forcedalign.Request) (*prediction, error) {
	input := map[string]any{
		"audio_file":   forcedalign.DataURI(req.Audio),
		"align_output": true,
		"batch_size":   p.cfg.BatchSize,
	}
	if req.Language != "" {
		input["language"] = req.Language
	}

	path := "/v1/models/" + p.cfg.Model + "/predictions"
	body := createRequest{Input: input}
	if p.cfg.Version != "" {
		path = "/v1/predictions"
		body.Version = p.cfg.Version
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    path,
		Headers: map[string]string{"Prefer": "wait"},
		Body:    body,
	})
	if err != nil {
		return nil, err
	}
	var pred prediction
	if err := resp.DecodeJSON(&pred); err != nil {
		return nil, err
	}
	if pred.ID == "" {
		return nil, fmt.Errorf("replicate: prediction without id")
	}
	return &pred, nil
}

func (p *Provider) get(ctx context.Context, id string) (*prediction, error) {
	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   "/v1/predictions/" + id,
	})
	if err != nil {
		return nil, err
	}
	var pred prediction
	if err := resp.DecodeJSON(&pred); err != nil {
		return nil, err
	}
	return &pred, nil
}

// cancel stops a prediction. It runs detached from ctx, which is usually
// already done.
func (p *Provider) cancel(ctx context.Context, id string) {
	cctx, stop := context.WithTimeout(context.WithoutCancel(ctx), cancelTimeout)
	defer stop()
	_, err := p.client.Do(cctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/v1/predictions/" + id + "/cancel",
	})
	log := p.log.WithContext(ctx).WithFields(logger.Fields("prediction_id", id))
	if err != nil {
		log.WithError(err).Warn("prediction cancel failed")
		return
	}
	log.Info("prediction cancelled")
}

// output returns the WhisperX document of a finished prediction. Models
// return it inline, as a JSON-encoded string, or as a URL to a JSON file.
// Output files are fetched without the API token and must be https unless
// the API itself is served over http.
func (p *Provider) output(ctx context.Context, raw json.RawMessage) ([]byte, error) {
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return raw, nil
	}
	if !strings.HasPrefix(s, "https://") && !strings.HasPrefix(s, "http://") {
		return []byte(s), nil
	}
	if strings.HasPrefix(s, "http://") && !strings.HasPrefix(p.cfg.BaseURL, "http://") {
		return nil, fmt.Errorf("replicate: refusing plain http output url %q", s)
	}
	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   s,
		Auth:   &httpclient.AuthConfig{Type: httpclient.AuthNone},
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// classify maps transport and API errors to AppErrors. Auth and request
// errors are not retryable.
func (p *Provider) classify(ctx context.Context, err error) error {
	if ctx.Err() != nil || httpclient.IsTimeout(err) {
		return apperrors.ProviderTimeout(ProviderName, err)
	}
	e := apperrors.ProviderFailure(ProviderName, err)
	var he *httpclient.Error
	if !errors.As(err, &he) {
		e.Retryable = false
		return e
	}
	e.Retryable = he.Retryable
	if he.StatusCode > 0 {
		e = e.WithDetail("upstream_status", he.StatusCode)
	}
	if httpclient.IsAuth(err) {
		e = e.WithDetail("reason", "unauthorized")
	}
	return e
}
