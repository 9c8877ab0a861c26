/*
Copyright IDResolve Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logfields

import (
	"go.uber.org/zap"
)

// Log Fields.
const (
	FieldClaimKeys     = "claimKeys"
	FieldContentType   = "contentType"
	FieldDocumentID    = "documentID"
	FieldRedirectURI   = "redirectURI"
	FieldScope         = "scope"
	FieldSessionID     = "sessionID"
	FieldSignatureSize = "signatureSize"
	FieldState         = "state"
	FieldSubjectID     = "subjectID"
)

// WithClaimKeys sets the claim keys field.
func WithClaimKeys(claimKeys []string) zap.Field {
	return zap.Strings(FieldClaimKeys, claimKeys)
}

// WithContentType sets the content type field.
func WithContentType(contentType string) zap.Field {
	return zap.String(FieldContentType, contentType)
}

// WithDocumentID sets the document id field.
func WithDocumentID(documentID string) zap.Field {
	return zap.String(FieldDocumentID, documentID)
}

// WithRedirectURI sets the redirect URI field.
func WithRedirectURI(redirectURI string) zap.Field {
	return zap.String(FieldRedirectURI, redirectURI)
}

// WithScope sets the scope field.
func WithScope(scope string) zap.Field {
	return zap.String(FieldScope, scope)
}

// WithSessionID sets the verification session id field.
func WithSessionID(sessionID string) zap.Field {
	return zap.String(FieldSessionID, sessionID)
}

// WithSignatureSize sets the signature size field.
func WithSignatureSize(size int) zap.Field {
	return zap.Int(FieldSignatureSize, size)
}

// WithState sets the authorization state field.
func WithState(state string) zap.Field {
	return zap.String(FieldState, state)
}

// WithSubjectID sets the subject id field.
func WithSubjectID(subjectID string) zap.Field {
	return zap.String(FieldSubjectID, subjectID)
}
