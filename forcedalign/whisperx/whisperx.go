// Package whisperx implements forced alignment with a locally installed
// whisperx command-line tool.
package whisperx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/kbukum/aligner/errors"
	"github.com/kbukum/aligner/forcedalign"
	"github.com/kbukum/aligner/logger"
	"github.com/kbukum/aligner/process"
	"github.com/kbukum/aligner/provider"
)

// ProviderName is the registered name of the local WhisperX provider.
const ProviderName = "whisperx"

const stderrTailLines = 5

// Config configures the local WhisperX provider.
type Config struct {
	// Binary is the whisperx executable, resolved via PATH when not absolute.
	Binary      string `yaml:"binary" mapstructure:"binary"`
	Model       string `yaml:"model" mapstructure:"model"`
	Device      string `yaml:"device" mapstructure:"device"`
	ComputeType string `yaml:"compute_type" mapstructure:"compute_type"`
	BatchSize   int    `yaml:"batch_size" mapstructure:"batch_size"`
	// ExtraArgs are appended verbatim to the command line.
	ExtraArgs []string `yaml:"extra_args" mapstructure:"extra_args"`
	// WorkDir is the parent of the per-call temp directories. Empty uses
	// the system default.
	WorkDir     string        `yaml:"work_dir" mapstructure:"work_dir"`
	GracePeriod time.Duration `yaml:"grace_period" mapstructure:"grace_period"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Binary == "" {
		c.Binary = "whisperx"
	}
	if c.Model == "" {
		c.Model = "large-v2"
	}
	if c.Device == "" {
		c.Device = "cpu"
	}
	if c.ComputeType == "" {
		c.ComputeType = "int8"
	}
	if c.GracePeriod <= 0 {
		c.GracePeriod = 5 * time.Second
	}
}

// Provider runs whisperx as a subprocess per call.
type Provider struct {
	cfg Config
	log *logger.Logger
}

var _ forcedalign.Provider = (*Provider)(nil)

// New creates a Provider.
func New(cfg Config, log *logger.Logger) *Provider {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Get(ProviderName)
	}
	return &Provider{cfg: cfg, log: log}
}

// Factory returns a provider.Factory that builds a Provider from a raw
// configuration section.
func Factory(log *logger.Logger) provider.Factory[forcedalign.Provider] {
	return func(raw map[string]any) (forcedalign.Provider, error) {
		var cfg Config
		if err := forcedalign.DecodeConfig(raw, &cfg); err != nil {
			return nil, fmt.Errorf("whisperx: %w", err)
		}
		return New(cfg, log), nil
	}
}

func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the whisperx binary can be found.
func (p *Provider) IsAvailable(_ context.Context) bool { return process.LookPath(p.cfg.Binary) }

// Execute writes the audio to a temp directory, runs whisperx on it and
// decodes the JSON it leaves next to the audio.
func (p *Provider) Execute(ctx context.Context, req forcedalign.Request) (*forcedalign.Response, error) {
	dir, err := os.MkdirTemp(p.cfg.WorkDir, "whisperx-*")
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("whisperx: create work dir: %w", err))
	}
	defer func() { _ = os.RemoveAll(dir) }()

	audioPath := filepath.Join(dir, "audio"+forcedalign.AudioExtension(req.Audio))
	if err := os.WriteFile(audioPath, req.Audio, 0o600); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("whisperx: write audio: %w", err))
	}

	res, err := process.Run(ctx, process.Command{
		Binary:      p.cfg.Binary,
		Args:        p.args(audioPath, dir, req.Language),
		Dir:         dir,
		GracePeriod: p.cfg.GracePeriod,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperrors.ProviderTimeout(ProviderName, err)
		}
		e := apperrors.ProviderFailure(ProviderName, err)
		e.Retryable = false
		if res != nil {
			e = e.WithDetail("exit_code", res.ExitCode).WithDetail("stderr", res.StderrTail(stderrTailLines))
		}
		return nil, e
	}
	p.log.WithContext(ctx).Debug("whisperx finished", logger.Fields(
		logger.FieldDuration, res.Duration.Milliseconds(),
	))

	outPath := filepath.Join(dir, strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))+".json")
	data, err := os.ReadFile(outPath)
	if err != nil {
		e := apperrors.ProviderFailure(ProviderName, fmt.Errorf("read whisperx output: %w", err))
		e.Retryable = false
		return nil, e
	}
	resp, err := forcedalign.DecodeWhisperX(data)
	if err != nil {
		e := apperrors.ProviderFailure(ProviderName, err)
		e.Retryable = false
		return nil, e
	}
	if resp.Language == "" {
		resp.Language = req.Language
	}
	return resp, nil
}

func (p *Provider) args(audioPath, outDir, language string) []string {
	args := []string{
		audioPath,
		"--output_dir", outDir,
		"--output_format", "json",
		"--model", p.cfg.Model,
		"--device", p.cfg.Device,
		"--compute_type", p.cfg.ComputeType,
	}
	if p.cfg.BatchSize > 0 {
		args = append(args, "--batch_size", strconv.Itoa(p.cfg.BatchSize))
	}
	if language != "" {
		args = append(args, "--language", language)
	}
	return append(args, p.cfg.ExtraArgs...)
}
