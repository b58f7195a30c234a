package replicate

import (
	"testing"
	"time"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.BaseURL != defaultBaseURL || cfg.Model != defaultModel {
		t.Errorf("unexpected endpoint defaults %+v", cfg)
	}
	if cfg.PollInterval != time.Second || cfg.HTTPTimeout != 2*time.Minute || cfg.BatchSize != 64 {
		t.Errorf("unexpected timing defaults %+v", cfg)
	}
}

func TestDecodeConfig(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		want    Config
		wantErr bool
	}{
		{
			name: "durations as strings",
			raw:  map[string]any{"api_token": "t", "http_timeout": "90s", "poll_interval": "2s"},
			want: Config{APIToken: "t", HTTPTimeout: 90 * time.Second, PollInterval: 2 * time.Second},
		},
		{
			name: "durations as values",
			raw:  map[string]any{"version": "v1", "http_timeout": 3 * time.Second},
			want: Config{Version: "v1", HTTPTimeout: 3 * time.Second},
		},
		{
			name: "nil section",
			raw:  nil,
			want: Config{},
		},
		{
			name:    "bad duration",
			raw:     map[string]any{"poll_interval": "soon"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeConfig(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeConfig_TLS(t *testing.T) {
	cfg, err := DecodeConfig(map[string]any{
		"base_url": "https://cog.internal:5000",
		"tls":      map[string]any{"ca_file": "/etc/aligner/ca.pem", "min_version": "1.3"},
	})
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.TLS == nil || cfg.TLS.CAFile != "/etc/aligner/ca.pem" || cfg.TLS.MinVersion != "1.3" {
		t.Fatalf("unexpected tls section %+v", cfg.TLS)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	cfg.TLS.MinVersion = "1.1"
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid min_version to fail validation")
	}
}
