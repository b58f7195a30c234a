package forcedalign

import (
	"testing"
	"time"
)

func TestDecodeConfig(t *testing.T) {
	var out struct {
		Timeout time.Duration `mapstructure:"timeout"`
		Args    []string      `mapstructure:"args"`
		Enabled bool          `mapstructure:"enabled"`
	}
	err := DecodeConfig(map[string]any{
		"timeout": "1m30s",
		"args":    "a,b",
		"enabled": "true",
	}, &out)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if out.Timeout != 90*time.Second || len(out.Args) != 2 || !out.Enabled {
		t.Errorf("unexpected result %+v", out)
	}

	if err := DecodeConfig(map[string]any{"timeout": map[string]any{"seconds": 1}}, &out); err == nil {
		t.Error("expected error for a map as duration")
	}
}

func TestCacheConfig_ApplyDefaults(t *testing.T) {
	var c CacheConfig
	c.ApplyDefaults()
	if c.TTL != 24*time.Hour {
		t.Errorf("TTL = %v", c.TTL)
	}
}
