package config

import (
	"crypto/tls"
	"fmt"
)

// TLSConfig holds TLS/mTLS configuration for the HTTP service. Certificates
// are read from PEM files.
type TLSConfig struct {
	Mode             string   `mapstructure:"mode"` // disabled, server, mutual
	CertFile         string   `mapstructure:"certFile"`
	KeyFile          string   `mapstructure:"keyFile"`
	CAFile           string   `mapstructure:"caFile"` // client CA, mutual mode only
	MinVersion       string   `mapstructure:"minVersion"`
	CipherSuites     []string `mapstructure:"cipherSuites"`
	ClientAuthPolicy string   `mapstructure:"clientAuthPolicy"` // require, request, verify
}

// Enabled reports whether the server should terminate TLS
func (t TLSConfig) Enabled() bool {
	return t.Mode == "server" || t.Mode == "mutual"
}

// ValidateTLSConfig validates the TLS configuration
func (c *Config) ValidateTLSConfig() error {
	t := c.Server.TLS

	if err := validateTLSMode(t); err != nil {
		return err
	}
	if err := validateTLSVersion(t); err != nil {
		return err
	}
	return validateCipherSuites(t)
}

func validateTLSMode(t TLSConfig) error {
	switch t.Mode {
	case "disabled", "":
		return nil
	case "server":
		return requireCertAndKey(t, "server mode")
	case "mutual":
		if err := requireCertAndKey(t, "mutual mode"); err != nil {
			return err
		}
		if t.CAFile == "" {
			return fmt.Errorf("CA certificate is required for mutual TLS mode (set caFile)")
		}
		return validateClientAuthPolicy(t)
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", t.Mode)
	}
}

func requireCertAndKey(t TLSConfig, mode string) error {
	if t.CertFile == "" || t.KeyFile == "" {
		return fmt.Errorf("TLS certificate and key are required for %s (set certFile and keyFile)", mode)
	}
	return nil
}

func validateClientAuthPolicy(t TLSConfig) error {
	switch t.ClientAuthPolicy {
	case "require", "request", "verify", "":
		return nil
	default:
		return fmt.Errorf("invalid clientAuthPolicy: %s (must be 'require', 'request', or 'verify')", t.ClientAuthPolicy)
	}
}

func validateTLSVersion(t TLSConfig) error {
	switch t.MinVersion {
	case "", "1.2", "1.3":
		return nil
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", t.MinVersion)
	}
}

func validateCipherSuites(t TLSConfig) error {
	for _, name := range t.CipherSuites {
		if _, ok := CipherSuiteID(name); !ok {
			return fmt.Errorf("unknown cipher suite: %s", name)
		}
	}
	return nil
}

// CipherSuiteID maps a Go cipher suite name to its id. Only suites Go
// considers secure are accepted.
func CipherSuiteID(name string) (uint16, bool) {
	for _, cs := range tls.CipherSuites() {
		if cs.Name == name {
			return cs.ID, true
		}
	}
	return 0, false
}
