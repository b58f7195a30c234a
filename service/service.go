package service

import (
	"context"
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kbukum/aligner/alignment"
	apperrors "github.com/kbukum/aligner/errors"
	"github.com/kbukum/aligner/forcedalign"
	"github.com/kbukum/aligner/logger"
	"github.com/kbukum/aligner/observability"
	"github.com/kbukum/aligner/validation"
)

// Service aligns transcripts against audio. It is safe for concurrent use.
type Service struct {
	provider forcedalign.Provider
	aligner  *alignment.Aligner
	log      *logger.Logger
	metrics  *observability.Metrics

	stats counters
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithMetrics records request and alignment metrics. A nil Metrics is a no-op.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New creates a Service. p should already carry its timeout and resilience
// middleware (see forcedalign.Wrap).
func New(p forcedalign.Provider, a *alignment.Aligner, opts ...Option) *Service {
	s := &Service{provider: p, aligner: a}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	s.log = s.log.WithComponent("service")
	return s
}

// ProviderName returns the name of the forced-alignment provider.
func (s *Service) ProviderName() string { return s.provider.Name() }

// ProviderConfigured reports whether the provider can accept calls.
func (s *Service) ProviderConfigured(ctx context.Context) bool {
	return s.provider.IsAvailable(ctx)
}

// Align validates req, fetches the word stream for its audio and returns
// the segments with corrected timing. Invalid requests fail with
// INVALID_INPUT before the provider is called; provider problems fail with
// PROVIDER_FAILURE and no partial result.
func (s *Service) Align(ctx context.Context, req AlignRequest) (*AlignResponse, error) {
	start := time.Now()
	s.stats.requests.Add(1)

	resp, err := s.align(ctx, req, start)
	status := observability.StatusOK
	if err != nil {
		status = observability.StatusError
		s.stats.failed.Add(1)
		observability.SetSpanError(ctx, err)
	}
	s.metrics.RecordRequest(ctx, status, time.Since(start))
	return resp, err
}

func (s *Service) align(ctx context.Context, req AlignRequest, start time.Time) (*AlignResponse, error) {
	log := s.log.WithContext(ctx)

	audio, err := decodeRequest(req)
	if err != nil {
		s.stats.rejected.Add(1)
		log.Warn("align request rejected", logger.Fields(
			"segments", len(req.Segments),
			"audio_base64_length", len(req.AudioBase64),
			logger.FieldError, err.Error(),
		))
		return nil, err
	}
	segments := req.roughSegments()
	if log.DebugEnabled() {
		log.Debug("align request", requestFields(segments, len(audio)))
	}
	observability.SetSpanAttribute(ctx, observability.AttrSegments, len(segments))
	observability.SetSpanAttribute(ctx, observability.AttrAudioBytes, len(audio))

	providerStart := time.Now()
	words, err := s.provider.Execute(ctx, forcedalign.Request{Audio: audio, Language: req.Language})
	providerTime := time.Since(providerStart)
	if err != nil {
		err = s.providerError(ctx, err)
		log.WithError(err).Error("forced alignment failed", logger.Fields(
			logger.FieldProvider, s.provider.Name(),
			logger.FieldDuration, time.Since(start).Milliseconds(),
		))
		return nil, err
	}
	if words == nil || len(words.Words) == 0 {
		return nil, apperrors.EmptyWordStream(s.provider.Name())
	}

	aligner := s.aligner
	if log.DebugEnabled() {
		aligner = aligner.With(segmentLogger(log))
	}
	result := aligner.Align(segments, words.Words)

	s.stats.record(result, words.Cached)
	s.metrics.RecordAlignment(ctx, result)
	observability.SetSpanAttribute(ctx, observability.AttrWords, len(words.Words))
	observability.SetSpanAttribute(ctx, observability.AttrMatched, result.Summary.Matched)
	observability.SetSpanAttribute(ctx, observability.AttrUnmatched, result.Summary.Unmatched)
	observability.SetSpanAttribute(ctx, observability.AttrAvgConf, result.AverageConfidence)

	sum := result.Summary
	log.Info("alignment complete", logger.Fields(
		logger.FieldProvider, s.provider.Name(),
		"cached", words.Cached,
		"language", words.Language,
		"segments", sum.Segments,
		"words", sum.Words,
		"matched", sum.Matched,
		"unmatched", sum.Unmatched,
		"repaired", sum.Repaired,
		"high", sum.Distribution.High,
		"medium", sum.Distribution.Medium,
		"low", sum.Distribution.Low,
		"average_confidence", result.AverageConfidence,
		"provider_ms", providerTime.Milliseconds(),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))

	return &AlignResponse{
		Segments:          result.Segments,
		AverageConfidence: result.AverageConfidence,
	}, nil
}

// providerError puts err in the PROVIDER_FAILURE category unless it already
// carries a code.
func (s *Service) providerError(ctx context.Context, err error) error {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperrors.ProviderTimeout(s.provider.Name(), err)
	}
	return apperrors.ProviderFailure(s.provider.Name(), err)
}

// languageTag accepts ISO 639 codes with an optional region or script
// subtag, e.g. "en", "pt-BR", "zh_Hant".
var languageTag = regexp.MustCompile(`^[a-z]{2,3}([-_][A-Za-z0-9]{2,8})?$`)

// decodeRequest validates req and returns the decoded audio.
func decodeRequest(req AlignRequest) ([]byte, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	if err := validation.New().Pattern("language", req.Language, languageTag).Validate(); err != nil {
		return nil, err
	}
	audio, err := decodeAudio(req.AudioBase64)
	if err != nil {
		return nil, apperrors.InvalidInput("audio_base64", "audio_base64 is not valid base64").WithCause(err)
	}
	if len(audio) == 0 {
		return nil, apperrors.InvalidInput("audio_base64", "audio_base64 decodes to an empty payload")
	}
	if mime, ok := forcedalign.DetectAudio(audio); !ok {
		return nil, apperrors.InvalidInput("audio_base64", "audio_base64 is not an audio file").WithDetail("detected", mime)
	}
	return audio, nil
}

// decodeAudio accepts standard base64, with or without padding, optionally
// behind a "data:<mime>;base64," prefix.
func decodeAudio(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		if _, payload, ok := strings.Cut(s, ","); ok {
			s = payload
		}
	}
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "=") || len(s)%4 == 0 {
		return base64.StdEncoding.DecodeString(s)
	}
	return base64.RawStdEncoding.DecodeString(s)
}

func requestFields(segments []alignment.RoughSegment, audioBytes int) map[string]interface{} {
	var chars int
	for _, seg := range segments {
		chars += len(seg.Text)
	}
	first, last := segments[0], segments[len(segments)-1]
	return logger.Fields(
		"segments", len(segments),
		"audio_bytes", audioBytes,
		"text_chars", chars,
		"first_start_ms", first.StartMs,
		"last_end_ms", last.EndMs,
	)
}

// segmentLogger reports every per-segment outcome at debug level.
func segmentLogger(log *logger.Logger) alignment.Observer {
	return alignment.ObserverFunc(func(e alignment.Event) {
		fields := logger.Fields(
			logger.FieldSegmentIndex, e.Index,
			"outcome", e.Kind.String(),
			"start_ms", e.StartMs,
			"end_ms", e.EndMs,
			"confidence", e.Confidence,
		)
		switch e.Kind {
		case alignment.EventMatched:
			fields["similarity"] = e.Similarity
			fields["coverage"] = e.Coverage
			fields["first_word"] = e.FirstWord
			fields["last_word"] = e.LastWord
		case alignment.EventUnmatched:
			fields["reason"] = e.Reason
		case alignment.EventRepaired:
			fields["original_start_ms"] = e.OriginalStart
			fields["original_end_ms"] = e.OriginalEnd
		}
		log.Debug("segment aligned", fields)
	})
}

// Stats is a point-in-time snapshot of service counters.
type Stats struct {
	Requests  int64 `json:"requests"`
	Failed    int64 `json:"failed"`
	Rejected  int64 `json:"rejected"`
	Segments  int64 `json:"segments"`
	Matched   int64 `json:"matched"`
	Unmatched int64 `json:"unmatched"`
	Repaired  int64 `json:"repaired"`
	CacheHits int64 `json:"cache_hits"`
}

type counters struct {
	requests  atomic.Int64
	failed    atomic.Int64
	rejected  atomic.Int64
	segments  atomic.Int64
	matched   atomic.Int64
	unmatched atomic.Int64
	repaired  atomic.Int64
	cacheHits atomic.Int64
}

func (c *counters) record(res alignment.Result, cached bool) {
	c.segments.Add(int64(res.Summary.Segments))
	c.matched.Add(int64(res.Summary.Matched))
	c.unmatched.Add(int64(res.Summary.Unmatched))
	c.repaired.Add(int64(res.Summary.Repaired))
	if cached {
		c.cacheHits.Add(1)
	}
}

// Stats returns the current counters.
func (s *Service) Stats() Stats {
	return Stats{
		Requests:  s.stats.requests.Load(),
		Failed:    s.stats.failed.Load(),
		Rejected:  s.stats.rejected.Load(),
		Segments:  s.stats.segments.Load(),
		Matched:   s.stats.matched.Load(),
		Unmatched: s.stats.unmatched.Load(),
		Repaired:  s.stats.repaired.Load(),
		CacheHits: s.stats.cacheHits.Load(),
	}
}
