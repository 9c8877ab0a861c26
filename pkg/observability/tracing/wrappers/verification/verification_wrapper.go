/*
Copyright IDResolve Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

//go:generate mockgen -destination gomocks_test.go -package verification . Service

package verification

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/idresolve/esia-go/pkg/observability/tracing/attributeutil"
	"github.com/idresolve/esia-go/pkg/service/verification"
)

type Service verification.ServiceInterface

type Wrapper struct {
	svc    Service
	tracer trace.Tracer
}

func Wrap(svc Service, tracer trace.Tracer) *Wrapper {
	return &Wrapper{svc: svc, tracer: tracer}
}

func (w *Wrapper) StartVerification(
	ctx context.Context,
	accessToken, subjectID string,
	opts ...verification.Opt,
) (*verification.Session, error) {
	ctx, span := w.tracer.Start(ctx, "verification.StartVerification")
	defer span.End()

	span.SetAttributes(attribute.String("subject_id", subjectID))

	session, err := w.svc.StartVerification(ctx, accessToken, subjectID, opts...)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attributeutil.JSON("session", session))

	return session, nil
}

func (w *Wrapper) GetResult(
	ctx context.Context,
	accessToken string,
	session *verification.Session,
) (map[string]interface{}, error) {
	ctx, span := w.tracer.Start(ctx, "verification.GetResult")
	defer span.End()

	if session != nil {
		span.SetAttributes(attribute.String("session_id", session.ID))
	}

	return w.svc.GetResult(ctx, accessToken, session)
}

func (w *Wrapper) Session(ctx context.Context, id string) (*verification.Session, error) {
	ctx, span := w.tracer.Start(ctx, "verification.Session")
	defer span.End()

	span.SetAttributes(attribute.String("session_id", id))

	return w.svc.Session(ctx, id)
}
