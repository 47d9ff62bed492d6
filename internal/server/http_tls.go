package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"hireall/internal/config"
)

// buildTLSConfig creates the TLS configuration for server or mutual mode.
// It returns nil when TLS is disabled.
func buildTLSConfig(t config.TLSConfig) (*tls.Config, error) {
	switch t.Mode {
	case "", "disabled":
		return nil, nil
	case "server", "mutual":
	default:
		return nil, fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", t.Mode)
	}

	if t.CertFile == "" || t.KeyFile == "" {
		return nil, fmt.Errorf("TLS certificate and key are required (set certFile and keyFile)")
	}
	cert, err := tls.LoadX509KeyPair(t.CertFile, t.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load server cert/key from files: %w", err)
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   minTLSVersion(t.MinVersion),
		ClientAuth:   tls.NoClientCert,
	}

	if len(t.CipherSuites) > 0 {
		suites := make([]uint16, 0, len(t.CipherSuites))
		for _, name := range t.CipherSuites {
			id, ok := config.CipherSuiteID(name)
			if !ok {
				return nil, fmt.Errorf("unknown cipher suite: %s", name)
			}
			suites = append(suites, id)
		}
		tlsConfig.CipherSuites = suites
	}

	if t.Mode == "mutual" {
		pool, err := loadCACertificatePool(t.CAFile)
		if err != nil {
			return nil, err
		}
		tlsConfig.ClientCAs = pool
		tlsConfig.ClientAuth = clientAuthPolicy(t.ClientAuthPolicy)
	}

	return tlsConfig, nil
}

func minTLSVersion(v string) uint16 {
	if v == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}

// loadCACertificatePool loads the CA used to verify client certificates
func loadCACertificatePool(caFile string) (*x509.CertPool, error) {
	if caFile == "" {
		return nil, fmt.Errorf("CA certificate is required for mutual TLS mode (set caFile)")
	}
	caCert, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}

	pool := x509.NewCertPool()
	if ok := pool.AppendCertsFromPEM(caCert); !ok {
		return nil, fmt.Errorf("failed to append CA cert from %s", caFile)
	}
	return pool, nil
}

func clientAuthPolicy(policy string) tls.ClientAuthType {
	switch policy {
	case "request":
		return tls.RequestClientCert
	case "verify":
		return tls.VerifyClientCertIfGiven
	default:
		return tls.RequireAndVerifyClientCert
	}
}
