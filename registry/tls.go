package registry

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// clientTLS builds a mutual-TLS client config from the registry TLS
// settings. Returns nil when TLS is disabled.
func clientTLS(cfg *TLSConfig) (*tls.Config, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	if cfg.CertFile == "" {
		return nil, fmt.Errorf("TLS cert file is required when TLS is enabled")
	}
	if cfg.KeyFile == "" {
		return nil, fmt.Errorf("TLS key file is required when TLS is enabled")
	}
	if cfg.CAFile == "" {
		return nil, fmt.Errorf("TLS CA file is required when TLS is enabled")
	}

	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load client certificate: %w", err)
	}

	caData, err := os.ReadFile(cfg.CAFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA certificate: %w", err)
	}

	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caData) {
		return nil, fmt.Errorf("failed to parse CA certificate")
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      caPool,
		MinVersion:   tls.VersionTLS12,
	}, nil
}
