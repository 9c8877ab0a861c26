/*
Copyright IDResolve Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination gomocks_test.go -package auth . Service

//nolint:lll
package auth

import (
	"context"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/idresolve/esia-go/pkg/observability/tracing/attributeutil"
	"github.com/idresolve/esia-go/pkg/service/auth"
)

type Service auth.ServiceInterface

type Wrapper struct {
	svc    Service
	tracer trace.Tracer
}

func Wrap(svc Service, tracer trace.Tracer) *Wrapper {
	return &Wrapper{svc: svc, tracer: tracer}
}

func (w *Wrapper) BuildAuthorizationURL(ctx context.Context, opts ...auth.Opt) (*auth.Authorization, error) {
	ctx, span := w.tracer.Start(ctx, "auth.BuildAuthorizationURL")
	defer span.End()

	authorization, err := w.svc.BuildAuthorizationURL(ctx, opts...)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("state", authorization.State))
	span.SetAttributes(attribute.String("scope", authorization.Scope))

	if u, err := url.Parse(authorization.URL); err == nil {
		span.SetAttributes(attributeutil.FormParams("authorization_params", u.Query(), attributeutil.WithRedacted("client_secret")))
	}

	return authorization, nil
}

func (w *Wrapper) CompleteAuthorization(ctx context.Context, code string, opts ...auth.Opt) (*auth.TokenResult, error) {
	ctx, span := w.tracer.Start(ctx, "auth.CompleteAuthorization")
	defer span.End()

	span.SetAttributes(attribute.String("code", code))

	result, err := w.svc.CompleteAuthorization(ctx, code, opts...)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("subject_id", result.SubjectID))

	return result, nil
}
