/*
Copyright IDResolve Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package auth implements the provider's authorization code flow: building
// the signed authorization URL the user is sent to, and exchanging the code
// from the callback for tokens.
package auth

//go:generate mockgen -destination auth_service_mocks_test.go -self_package mocks -package auth_test -source=auth_service.go -mock_names transportClient=MockTransportClient,requestSigner=MockRequestSigner,metricsProvider=MockMetricsProvider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/trustbloc/logutil-go/pkg/log"
	"golang.org/x/oauth2"

	"github.com/idresolve/esia-go/internal/logfields"
	"github.com/idresolve/esia-go/pkg/esia"
	"github.com/idresolve/esia-go/pkg/esiaerr"
	"github.com/idresolve/esia-go/pkg/idtoken"
	noopMetricsProvider "github.com/idresolve/esia-go/pkg/observability/metrics/noop"
	"github.com/idresolve/esia-go/pkg/signer"
	"github.com/idresolve/esia-go/pkg/transport"
)

var logger = log.New("auth-service")

// fixedParams are pinned by the flow and cannot be overridden by extra
// request parameters.
var fixedParams = map[string]struct{}{
	"response_type": {},
	"access_type":   {},
	"client_id":     {},
}

type transportClient interface {
	Do(ctx context.Context, req *transport.Request, out interface{}) error
}

type requestSigner interface {
	Sign(data []byte) (string, error)
}

type metricsProvider interface {
	CompleteAuthorizationTime(value time.Duration)
}

// ServiceInterface defines the authorization flow contract.
type ServiceInterface interface {
	BuildAuthorizationURL(ctx context.Context, opts ...Opt) (*Authorization, error)
	CompleteAuthorization(ctx context.Context, code string, opts ...Opt) (*TokenResult, error)
}

// Authorization describes a prepared authorization redirect. State, scope and
// timestamp are returned so the caller can correlate the provider callback
// with this request.
type Authorization struct {
	URL         string
	State       string
	Scope       string
	RedirectURI string
	Timestamp   string
}

// TokenResult carries the outcome of the token exchange.
type TokenResult struct {
	AccessToken string
	IDToken     string
	SubjectID   string
	Claims      map[string]interface{}
}

// Config defines configuration for the authorization service.
type Config struct {
	Settings  *esia.Settings
	Transport transportClient
	Signer    requestSigner
	Metrics   metricsProvider
}

// Service implements the authorization code flow.
type Service struct {
	settings  *esia.Settings
	transport transportClient
	signer    requestSigner
	metrics   metricsProvider
}

// NewService creates the authorization service.
func NewService(config *Config) *Service {
	metrics := config.Metrics
	if metrics == nil {
		metrics = &noopMetricsProvider.NoMetrics{}
	}

	return &Service{
		settings:  config.Settings,
		transport: config.Transport,
		signer:    config.Signer,
		metrics:   metrics,
	}
}

type options struct {
	scope       string
	state       string
	redirectURI string
	extraParams map[string]string
}

// Opt customizes a single flow call.
type Opt func(*options)

// WithScopes replaces the default permission scopes for this call.
func WithScopes(scopes ...esia.Scope) Opt {
	return func(o *options) {
		o.scope = esia.JoinScopes(scopes)
	}
}

// WithState pins the state value instead of generating a fresh one.
func WithState(state string) Opt {
	return func(o *options) {
		o.state = state
	}
}

// WithRedirectURI replaces the default redirect URI for this call.
func WithRedirectURI(redirectURI string) Opt {
	return func(o *options) {
		o.redirectURI = redirectURI
	}
}

// WithExtraParam adds or overrides a request parameter. Overrides of signed
// parameters re-enter the signature; response_type, access_type and client_id
// stay fixed.
func WithExtraParam(name, value string) Opt {
	return func(o *options) {
		o.extraParams[name] = value
	}
}

// resolve applies opts over the configured defaults. State is generated
// fresh on every call unless pinned.
func (s *Service) resolve(opts []Opt) *options {
	o := &options{
		scope:       s.settings.ScopeString(),
		state:       uuid.New().String(),
		redirectURI: s.settings.RedirectURI,
		extraParams: map[string]string{},
	}

	for _, fn := range opts {
		fn(o)
	}

	return o
}

// BuildAuthorizationURL prepares the URL the user agent is redirected to. The
// scope, timestamp, client id and state are signed and the signature is
// attached as client_secret.
func (s *Service) BuildAuthorizationURL(ctx context.Context, opts ...Opt) (*Authorization, error) {
	o := s.resolve(opts)

	timestamp := esia.Timestamp(time.Now())

	extras := map[string]string{}

	for name, value := range o.extraParams {
		if _, ok := fixedParams[name]; ok {
			continue
		}

		switch name {
		case "scope":
			o.scope = value
		case "state":
			o.state = value
		case "timestamp":
			timestamp = value
		case "redirect_uri":
			o.redirectURI = value
		default:
			extras[name] = value
		}
	}

	signature, err := s.signer.Sign(signer.SigningInput(url.Values{
		"scope":     {o.scope},
		"timestamp": {timestamp},
		"client_id": {s.settings.ClientID},
		"state":     {o.state},
	}))
	if err != nil {
		return nil, err
	}

	oauthConfig := oauth2.Config{
		ClientID:    s.settings.ClientID,
		RedirectURL: o.redirectURI,
		Scopes:      []string{o.scope},
		Endpoint: oauth2.Endpoint{
			AuthURL:  s.settings.AuthorizationEndpoint(),
			TokenURL: s.settings.TokenEndpoint(),
		},
	}

	authOpts := []oauth2.AuthCodeOption{oauth2.AccessTypeOffline}

	for name, value := range extras {
		authOpts = append(authOpts, oauth2.SetAuthURLParam(name, value))
	}

	// The signature goes last so nothing can displace it.
	authOpts = append(authOpts,
		oauth2.SetAuthURLParam("timestamp", timestamp),
		oauth2.SetAuthURLParam("client_secret", signature))

	authorizationURL := oauthConfig.AuthCodeURL(o.state, authOpts...)

	logger.Debugc(ctx, "Built authorization URL",
		logfields.WithScope(o.scope),
		logfields.WithState(o.state),
		logfields.WithRedirectURI(o.redirectURI))

	return &Authorization{
		URL:         authorizationURL,
		State:       o.state,
		Scope:       o.scope,
		RedirectURI: o.redirectURI,
		Timestamp:   timestamp,
	}, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
}

// CompleteAuthorization exchanges the authorization code from the provider
// callback for tokens and extracts the subject identifier from the id token.
func (s *Service) CompleteAuthorization(ctx context.Context, code string, opts ...Opt) (*TokenResult, error) {
	startTime := time.Now()

	defer func() {
		s.metrics.CompleteAuthorizationTime(time.Since(startTime))
	}()

	o := s.resolve(opts)

	params := url.Values{
		"client_id":    {s.settings.ClientID},
		"code":         {code},
		"grant_type":   {"authorization_code"},
		"redirect_uri": {o.redirectURI},
		"timestamp":    {esia.Timestamp(time.Now())},
		"token_type":   {"Bearer"},
		"scope":        {o.scope},
		"state":        {o.state},
	}

	for name, value := range o.extraParams {
		if _, ok := fixedParams[name]; ok {
			continue
		}

		switch name {
		case "scope":
			o.scope = value
		case "state":
			o.state = value
		case "redirect_uri":
			o.redirectURI = value
		}

		params.Set(name, value)
	}

	signature, err := s.signer.Sign(signer.SigningInput(params))
	if err != nil {
		return nil, err
	}

	params.Set("client_secret", signature)

	var resp tokenResponse

	err = s.transport.Do(ctx, &transport.Request{
		Method: http.MethodPost,
		URL:    s.settings.TokenEndpoint(),
		Form:   params,
	}, &resp)
	if err != nil {
		var redirect *esiaerr.RedirectError

		if errors.As(err, &redirect) {
			return nil, esiaerr.New(esiaerr.CodeUnexpectedResponse,
				fmt.Errorf("token endpoint answered with a redirect to %s", redirect.Location))
		}

		return nil, err
	}

	if resp.AccessToken == "" || resp.IDToken == "" {
		return nil, esiaerr.Newf(esiaerr.CodeMalformedResponse,
			"token response misses access_token or id_token")
	}

	payload, err := idtoken.Decode(resp.IDToken)
	if err != nil {
		return nil, err
	}

	subjectID, err := payload.SubjectID()
	if err != nil {
		return nil, err
	}

	logger.Debugc(ctx, "Completed authorization",
		logfields.WithState(o.state),
		logfields.WithSubjectID(subjectID))

	return &TokenResult{
		AccessToken: resp.AccessToken,
		IDToken:     resp.IDToken,
		SubjectID:   subjectID,
		Claims:      payload.Claims,
	}, nil
}
