package security

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// TLSConfig configures client-side TLS. The zero value means "use the
// system defaults".
type TLSConfig struct {
	// CAFile is a PEM bundle trusted in addition to the system roots.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file"`
	// CertFile and KeyFile present a client certificate (mTLS).
	CertFile string `yaml:"cert_file" mapstructure:"cert_file"`
	KeyFile  string `yaml:"key_file" mapstructure:"key_file"`
	// ServerName overrides the name verified against the certificate.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`
	// MinVersion is "1.2" or "1.3". Empty means 1.2.
	MinVersion string `yaml:"min_version" mapstructure:"min_version"`
	// SkipVerify disables certificate verification. Local testing only.
	SkipVerify bool `yaml:"skip_verify" mapstructure:"skip_verify"`
}

// IsEnabled reports whether any setting differs from the defaults.
func (c *TLSConfig) IsEnabled() bool {
	if c == nil {
		return false
	}
	return c.CAFile != "" || c.CertFile != "" || c.ServerName != "" || c.MinVersion != "" || c.SkipVerify
}

// Validate checks that the settings are consistent.
func (c *TLSConfig) Validate() error {
	if c == nil {
		return nil
	}
	if (c.CertFile != "") != (c.KeyFile != "") {
		return fmt.Errorf("tls: cert_file and key_file must be set together")
	}
	if _, err := c.minVersion(); err != nil {
		return err
	}
	return nil
}

// Build returns the *tls.Config for the settings, or nil when none are set.
func (c *TLSConfig) Build() (*tls.Config, error) {
	if !c.IsEnabled() {
		return nil, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	minVersion, _ := c.minVersion()

	cfg := &tls.Config{
		ServerName:         c.ServerName,
		MinVersion:         minVersion,
		InsecureSkipVerify: c.SkipVerify, //nolint:gosec // opt-in for local testing
	}
	if c.CAFile != "" {
		pool, err := loadPool(c.CAFile)
		if err != nil {
			return nil, err
		}
		cfg.RootCAs = pool
	}
	if c.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("tls: load client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	return cfg, nil
}

func (c *TLSConfig) minVersion() (uint16, error) {
	switch c.MinVersion {
	case "", "1.2":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("tls: min_version must be 1.2 or 1.3 (got: %q)", c.MinVersion)
	}
}

// loadPool returns the system roots plus the certificates in caFile.
func loadPool(caFile string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("tls: read CA file: %w", err)
	}
	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("tls: no certificates found in %s", caFile)
	}
	return pool, nil
}
