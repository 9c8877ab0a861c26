/*
Copyright IDResolve Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package verification implements the biometric verification flow: starting
// a verification session for an authorized subject and collecting its result.
package verification

//go:generate mockgen -destination verification_service_mocks_test.go -self_package mocks -package verification_test -source=verification_service.go -mock_names transportClient=MockTransportClient,sessionStore=MockSessionStore,metricsProvider=MockMetricsProvider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/idresolve/esia-go/internal/logfields"
	"github.com/idresolve/esia-go/pkg/esia"
	"github.com/idresolve/esia-go/pkg/esiaerr"
	"github.com/idresolve/esia-go/pkg/idtoken"
	noopMetricsProvider "github.com/idresolve/esia-go/pkg/observability/metrics/noop"
	"github.com/idresolve/esia-go/pkg/transport"
)

var logger = log.New("verification-service")

// DefaultServiceURL is the verification provider's integration environment.
const DefaultServiceURL = "https://ebs-int.rtlabs.ru"

const idpName = "ESIA"

type transportClient interface {
	Do(ctx context.Context, req *transport.Request, out interface{}) error
}

type sessionStore interface {
	SaveSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, id string) (*Session, error)
}

type metricsProvider interface {
	StartVerificationTime(value time.Duration)
}

// ServiceInterface defines the verification flow contract.
type ServiceInterface interface {
	StartVerification(ctx context.Context, accessToken, subjectID string, opts ...Opt) (*Session, error)
	GetResult(ctx context.Context, accessToken string, session *Session) (map[string]interface{}, error)
	Session(ctx context.Context, id string) (*Session, error)
}

// Session is a started verification. A value is only obtainable from
// StartVerification or from the configured session store, so a result can
// never be requested for a verification that was not started.
type Session struct {
	ID          string    `json:"id"`
	SubjectID   string    `json:"subject_id"`
	RedirectURL string    `json:"redirect_url"`
	StartedAt   time.Time `json:"started_at"`
}

// Config defines configuration for the verification service.
type Config struct {
	Settings   *esia.Settings
	Transport  transportClient
	ServiceURL string
	Store      sessionStore
	Metrics    metricsProvider
}

// Service implements the verification flow.
type Service struct {
	settings   *esia.Settings
	transport  transportClient
	serviceURL string
	store      sessionStore
	metrics    metricsProvider
}

// NewService creates the verification service.
func NewService(config *Config) *Service {
	serviceURL := config.ServiceURL
	if serviceURL == "" {
		serviceURL = DefaultServiceURL
	}

	metrics := config.Metrics
	if metrics == nil {
		metrics = &noopMetricsProvider.NoMetrics{}
	}

	return &Service{
		settings:   config.Settings,
		transport:  config.Transport,
		serviceURL: strings.TrimSuffix(serviceURL, "/"),
		store:      config.Store,
		metrics:    metrics,
	}
}

type options struct {
	redirectURI string
}

// Opt customizes a single verification call.
type Opt func(*options)

// WithRedirectURI replaces the default post-verification redirect.
func WithRedirectURI(redirectURI string) Opt {
	return func(o *options) {
		o.redirectURI = redirectURI
	}
}

type verificationRequest struct {
	Metadata verificationMetadata `json:"metadata"`
}

type verificationMetadata struct {
	Date       string `json:"date"`
	UserID     string `json:"user_id"`
	InfoSystem string `json:"info_system"`
	IDP        string `json:"idp"`
}

type resultResponse struct {
	ExtendedResult string `json:"extended_result"`
}

// StartVerification opens a verification session for the subject. The
// provider acknowledges with a redirect whose session_id query parameter
// identifies the session; a plain JSON answer means the session was not
// opened.
func (s *Service) StartVerification(ctx context.Context, accessToken, subjectID string,
	opts ...Opt) (*Session, error) {
	startTime := time.Now()

	defer func() {
		s.metrics.StartVerificationTime(time.Since(startTime))
	}()

	o := &options{redirectURI: s.settings.RedirectURI}

	for _, fn := range opts {
		fn(o)
	}

	var body map[string]interface{}

	err := s.transport.Do(ctx, &transport.Request{
		Method: http.MethodPost,
		URL:    s.serviceURL + "/api/v2/verifications",
		Header: http.Header{"Authorization": {"Bearer " + accessToken}},
		Query:  url.Values{"redirect": {o.redirectURI}},
		JSON: verificationRequest{
			Metadata: verificationMetadata{
				Date:       strconv.FormatInt(time.Now().Unix(), 10),
				UserID:     subjectID,
				InfoSystem: s.settings.ClientID,
				IDP:        idpName,
			},
		},
	}, &body)
	if err == nil {
		return nil, esiaerr.Newf(esiaerr.CodeUnexpectedResponse,
			"verification provider answered with a body instead of a redirect")
	}

	var redirect *esiaerr.RedirectError

	if !errors.As(err, &redirect) {
		return nil, err
	}

	sessionID, err := sessionIDFromLocation(redirect.Location)
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:          sessionID,
		SubjectID:   subjectID,
		RedirectURL: redirect.Location,
		StartedAt:   time.Now().UTC(),
	}

	if s.store != nil {
		if err = s.store.SaveSession(ctx, session); err != nil {
			return nil, fmt.Errorf("save verification session: %w", err)
		}
	}

	logger.Debugc(ctx, "Started verification session",
		logfields.WithSessionID(session.ID),
		logfields.WithSubjectID(subjectID))

	return session, nil
}

// GetResult fetches the outcome of a started verification and decodes the
// claims from its extended result token.
func (s *Service) GetResult(ctx context.Context, accessToken string,
	session *Session) (map[string]interface{}, error) {
	if session == nil || session.ID == "" {
		return nil, esiaerr.New(esiaerr.CodeSessionState, errors.New("verification session is not started"))
	}

	var resp resultResponse

	err := s.transport.Do(ctx, &transport.Request{
		Method: http.MethodGet,
		URL:    s.serviceURL + "/api/v2/verifications/" + url.PathEscape(session.ID) + "/result",
		Header: http.Header{"Authorization": {"Bearer " + accessToken}},
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.ExtendedResult == "" {
		return nil, esiaerr.Newf(esiaerr.CodeMalformedResponse, "verification result misses extended_result")
	}

	payload, err := idtoken.Decode(resp.ExtendedResult)
	if err != nil {
		return nil, err
	}

	logger.Debugc(ctx, "Fetched verification result", logfields.WithSessionID(session.ID))

	return payload.Claims, nil
}

// Session loads a previously persisted verification session.
func (s *Service) Session(ctx context.Context, id string) (*Session, error) {
	if s.store == nil {
		return nil, esiaerr.New(esiaerr.CodeSessionState, errors.New("no session store is configured"))
	}

	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, esiaerr.ErrSessionNotFound) {
			return nil, esiaerr.New(esiaerr.CodeSessionState, err)
		}

		return nil, err
	}

	return session, nil
}

// sessionIDFromLocation extracts the session identifier from the redirect
// location by a named query lookup, regardless of parameter position.
func sessionIDFromLocation(location string) (string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", esiaerr.New(esiaerr.CodeMalformedResponse, fmt.Errorf("parse redirect location: %w", err))
	}

	sessionID := u.Query().Get("session_id")
	if sessionID == "" {
		return "", esiaerr.Newf(esiaerr.CodeMalformedResponse,
			"redirect location %q has no session_id", location)
	}

	return sessionID, nil
}
