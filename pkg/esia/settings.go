/*
Copyright IDResolve Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package esia holds the client configuration shared by all flows: the
// registered client identity, the provider endpoints, the requested scopes
// and the signing key pair. A Settings value is created once per process and
// treated as read-only afterwards.
package esia

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/idresolve/esia-go/pkg/esiaerr"
)

const (
	authorizationPath = "/aas/oauth2/ac"
	tokenPath         = "/aas/oauth2/te"
	restPath          = "/rs"

	defaultRequestTimeout = 5 * time.Second
)

// SettingsConfig carries the raw configuration for NewSettings.
type SettingsConfig struct {
	// ClientID is the identifier assigned to this system by the identity provider.
	ClientID string
	// RedirectURI is the default post-authorization redirect.
	RedirectURI string
	// ServiceURL is the identity provider base URL.
	ServiceURL string
	// Scopes are the default permission scopes requested during authorization.
	Scopes []Scope
	// CertFile is the path to the PEM-encoded signing certificate.
	CertFile string
	// PrivateKeyFile is the path to the PEM-encoded signing key.
	PrivateKeyFile string
	// RequestTimeout bounds each provider HTTP request. Defaults to 5s.
	RequestTimeout time.Duration
}

// Settings is the immutable client configuration. The certificate and private
// key are used only for request signing.
type Settings struct {
	ClientID       string
	RedirectURI    string
	ServiceURL     string
	Scopes         []Scope
	RequestTimeout time.Duration
	Certificate    *x509.Certificate
	PrivateKey     crypto.Signer
}

// NewSettings loads the signing key pair from the configured PEM files and
// validates the configuration. Any unreadable or unparsable input fails with
// a configuration error.
func NewSettings(config *SettingsConfig) (*Settings, error) {
	certPEM, err := os.ReadFile(config.CertFile)
	if err != nil {
		return nil, esiaerr.New(esiaerr.CodeConfiguration, fmt.Errorf("read certificate file: %w", err))
	}

	keyPEM, err := os.ReadFile(config.PrivateKeyFile)
	if err != nil {
		return nil, esiaerr.New(esiaerr.CodeConfiguration, fmt.Errorf("read private key file: %w", err))
	}

	certificate, err := parseCertificate(certPEM)
	if err != nil {
		return nil, esiaerr.New(esiaerr.CodeConfiguration, err)
	}

	privateKey, err := parsePrivateKey(keyPEM)
	if err != nil {
		return nil, esiaerr.New(esiaerr.CodeConfiguration, err)
	}

	return newSettings(config, certificate, privateKey)
}

// NewSettingsWithKeyPair builds Settings from an already parsed certificate
// and signer, for deployments that keep key material outside of PEM files.
func NewSettingsWithKeyPair(config *SettingsConfig, certificate *x509.Certificate,
	privateKey crypto.Signer) (*Settings, error) {
	if certificate == nil || privateKey == nil {
		return nil, esiaerr.New(esiaerr.CodeConfiguration, errors.New("certificate and private key are required"))
	}

	return newSettings(config, certificate, privateKey)
}

func newSettings(config *SettingsConfig, certificate *x509.Certificate,
	privateKey crypto.Signer) (*Settings, error) {
	if config.ClientID == "" {
		return nil, esiaerr.New(esiaerr.CodeConfiguration, errors.New("client id is required"))
	}

	if err := validateURL("service url", config.ServiceURL); err != nil {
		return nil, esiaerr.New(esiaerr.CodeConfiguration, err)
	}

	if err := validateURL("redirect uri", config.RedirectURI); err != nil {
		return nil, esiaerr.New(esiaerr.CodeConfiguration, err)
	}

	timeout := config.RequestTimeout
	if timeout == 0 {
		timeout = defaultRequestTimeout
	}

	return &Settings{
		ClientID:       config.ClientID,
		RedirectURI:    config.RedirectURI,
		ServiceURL:     config.ServiceURL,
		Scopes:         config.Scopes,
		RequestTimeout: timeout,
		Certificate:    certificate,
		PrivateKey:     privateKey,
	}, nil
}

// ScopeString returns the default scopes in the provider's space-joined form.
func (s *Settings) ScopeString() string {
	return JoinScopes(s.Scopes)
}

// AuthorizationEndpoint is the provider's authorization code endpoint.
func (s *Settings) AuthorizationEndpoint() string {
	return s.endpoint(authorizationPath)
}

// TokenEndpoint is the provider's token exchange endpoint.
func (s *Settings) TokenEndpoint() string {
	return s.endpoint(tokenPath)
}

// RESTEndpoint is the base of the provider's resource API.
func (s *Settings) RESTEndpoint() string {
	return s.endpoint(restPath)
}

func (s *Settings) endpoint(path string) string {
	return strings.TrimSuffix(s.ServiceURL, "/") + path
}

func validateURL(name, value string) error {
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}

	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be absolute, got %q", name, value)
	}

	return nil
}

func parseCertificate(certPEM []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(certPEM)
	if block == nil {
		return nil, errors.New("certificate is not PEM encoded")
	}

	certificate, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse certificate: %w", err)
	}

	return certificate, nil
}

// parsePrivateKey accepts PKCS#8, PKCS#1 and SEC1 encoded keys.
func parsePrivateKey(keyPEM []byte) (crypto.Signer, error) {
	block, _ := pem.Decode(keyPEM)
	if block == nil {
		return nil, errors.New("private key is not PEM encoded")
	}

	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		switch k := key.(type) {
		case *rsa.PrivateKey:
			return k, nil
		case *ecdsa.PrivateKey:
			return k, nil
		case ed25519.PrivateKey:
			return k, nil
		default:
			return nil, fmt.Errorf("unsupported private key type %T", key)
		}
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	return nil, errors.New("private key is not PKCS#8, PKCS#1 or SEC1 encoded")
}
