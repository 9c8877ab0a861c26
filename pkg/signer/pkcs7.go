/*
Copyright IDResolve Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package signer produces the detached PKCS#7 signature the identity provider
// requires on authorization and token requests.
package signer

import (
	"crypto"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/smallstep/pkcs7"

	"github.com/idresolve/esia-go/pkg/esiaerr"
	noopMetricsProvider "github.com/idresolve/esia-go/pkg/observability/metrics/noop"
)

// canonicalOrder is the provider-mandated parameter order for the signature
// payload. Values are concatenated without a separator and absent parameters
// contribute an empty string.
var canonicalOrder = []string{"scope", "timestamp", "client_id", "state"}

type metricsProvider interface {
	SignTime(value time.Duration)
}

// PKCS7Signer to crypto sign request parameters.
// Note: do not create an instance of PKCS7Signer directly. Use NewPKCS7Signer() instead.
type PKCS7Signer struct {
	certificate *x509.Certificate
	privateKey  crypto.Signer
	metrics     metricsProvider
}

func NewPKCS7Signer(certificate *x509.Certificate, privateKey crypto.Signer,
	metrics metricsProvider) *PKCS7Signer {
	if metrics == nil {
		metrics = &noopMetricsProvider.NoMetrics{}
	}

	return &PKCS7Signer{
		certificate: certificate,
		privateKey:  privateKey,
		metrics:     metrics,
	}
}

// SigningInput concatenates the request parameters in canonical order.
func SigningInput(params url.Values) []byte {
	var b strings.Builder

	for _, name := range canonicalOrder {
		b.WriteString(params.Get(name))
	}

	return []byte(b.String())
}

// Sign produces a detached PKCS#7 signature over data and returns it in
// URL-safe base64 with padding, ready to be sent as the client_secret
// parameter.
func (s *PKCS7Signer) Sign(data []byte) (string, error) {
	startTime := time.Now()

	defer func() {
		s.metrics.SignTime(time.Since(startTime))
	}()

	if s.certificate == nil || s.privateKey == nil {
		return "", esiaerr.New(esiaerr.CodeSigning, errors.New("signing key pair is not configured"))
	}

	signedData, err := pkcs7.NewSignedData(data)
	if err != nil {
		return "", esiaerr.New(esiaerr.CodeSigning, fmt.Errorf("create signed data: %w", err))
	}

	signedData.SetDigestAlgorithm(pkcs7.OIDDigestAlgorithmSHA256)

	if err = signedData.AddSigner(s.certificate, s.privateKey, pkcs7.SignerInfoConfig{}); err != nil {
		return "", esiaerr.New(esiaerr.CodeSigning, fmt.Errorf("add signer: %w", err))
	}

	signedData.Detach()

	der, err := signedData.Finish()
	if err != nil {
		return "", esiaerr.New(esiaerr.CodeSigning, fmt.Errorf("serialize signature: %w", err))
	}

	return base64.URLEncoding.EncodeToString(der), nil
}
