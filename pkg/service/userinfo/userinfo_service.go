/*
Copyright IDResolve Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package userinfo reads subject profile data from the provider's resource
// API. Payload shapes vary between provider versions and deployments, so
// every getter returns the raw JSON document.
package userinfo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/idresolve/esia-go/pkg/esia"
	"github.com/idresolve/esia-go/pkg/transport"
)

// embedElements asks the provider to inline collection elements instead of
// returning element URLs.
const embedElements = "(elements)"

type transportClient interface {
	Do(ctx context.Context, req *transport.Request, out interface{}) error
}

// Config defines configuration for the userinfo service.
type Config struct {
	Settings  *esia.Settings
	Transport transportClient
}

// Service reads subject profile resources.
type Service struct {
	settings  *esia.Settings
	transport transportClient
}

// NewService creates the userinfo service.
func NewService(config *Config) *Service {
	return &Service{
		settings:  config.Settings,
		transport: config.Transport,
	}
}

// Person returns the subject's main profile document.
func (s *Service) Person(ctx context.Context, accessToken, subjectID string) (json.RawMessage, error) {
	return s.get(ctx, accessToken, s.personURL(subjectID), nil)
}

// Addresses returns the subject's registered addresses.
func (s *Service) Addresses(ctx context.Context, accessToken, subjectID string) (json.RawMessage, error) {
	return s.collection(ctx, accessToken, subjectID, "addrs")
}

// Contacts returns the subject's contact entries.
func (s *Service) Contacts(ctx context.Context, accessToken, subjectID string) (json.RawMessage, error) {
	return s.collection(ctx, accessToken, subjectID, "ctts")
}

// Documents returns the subject's identity documents.
func (s *Service) Documents(ctx context.Context, accessToken, subjectID string) (json.RawMessage, error) {
	return s.collection(ctx, accessToken, subjectID, "docs")
}

// Document returns a single identity document.
func (s *Service) Document(ctx context.Context, accessToken, subjectID,
	documentID string) (json.RawMessage, error) {
	return s.get(ctx, accessToken, s.personURL(subjectID)+"/docs/"+url.PathEscape(documentID), nil)
}

func (s *Service) collection(ctx context.Context, accessToken, subjectID,
	kind string) (json.RawMessage, error) {
	return s.get(ctx, accessToken, s.personURL(subjectID)+"/"+kind,
		url.Values{"embed": {embedElements}})
}

func (s *Service) get(ctx context.Context, accessToken, requestURL string,
	query url.Values) (json.RawMessage, error) {
	var payload json.RawMessage

	err := s.transport.Do(ctx, &transport.Request{
		Method: http.MethodGet,
		URL:    requestURL,
		Header: http.Header{
			"Authorization": {"Bearer " + accessToken},
			"Accept":        {"application/json"},
		},
		Query: query,
	}, &payload)
	if err != nil {
		return nil, err
	}

	return payload, nil
}

func (s *Service) personURL(subjectID string) string {
	return s.settings.RESTEndpoint() + "/prns/" + url.PathEscape(subjectID)
}
