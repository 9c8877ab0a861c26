/*
Copyright IDResolve Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package idtoken decodes the provider's JWT-shaped tokens. Signatures are
// not verified: tokens arrive over the provider's TLS channel and the decoded
// claims carry no further trust.
package idtoken

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/valyala/fastjson"

	"github.com/idresolve/esia-go/pkg/esiaerr"
)

const segmentCount = 3

// Claim paths used to locate the subject identifier.
const (
	subjectClaim   = "urn:esia:sbj"
	subjectIDClaim = "urn:esia:sbj:oid"
)

// Payload is the decoded claims segment of a token.
type Payload struct {
	Claims map[string]interface{}

	raw []byte
}

// DecodeSegment decodes one URL-safe base64 token segment, restoring padding
// the provider strips.
func DecodeSegment(segment string) ([]byte, error) {
	if offset := len(segment) % 4; offset != 0 {
		segment += strings.Repeat("=", 4-offset)
	}

	return base64.URLEncoding.DecodeString(segment)
}

// Decode splits token into its segments and decodes the payload.
func Decode(token string) (*Payload, error) {
	segments := strings.Split(token, ".")
	if len(segments) != segmentCount {
		return nil, esiaerr.Newf(esiaerr.CodeMalformedToken,
			"token has %d segments, want %d", len(segments), segmentCount)
	}

	raw, err := DecodeSegment(segments[1])
	if err != nil {
		return nil, esiaerr.New(esiaerr.CodeMalformedToken, fmt.Errorf("decode payload segment: %w", err))
	}

	var claims map[string]interface{}

	if err = json.Unmarshal(raw, &claims); err != nil {
		return nil, esiaerr.New(esiaerr.CodeMalformedToken, fmt.Errorf("parse payload: %w", err))
	}

	return &Payload{Claims: claims, raw: raw}, nil
}

// SubjectID extracts the provider's subject identifier from the nested
// subject claim. Numeric identifiers keep their decimal rendering.
func (p *Payload) SubjectID() (string, error) {
	value, err := fastjson.ParseBytes(p.raw)
	if err != nil {
		return "", esiaerr.New(esiaerr.CodeInvalidClaims, fmt.Errorf("parse claims: %w", err))
	}

	subjectID := value.Get(subjectClaim, subjectIDClaim)
	if subjectID == nil {
		return "", esiaerr.Newf(esiaerr.CodeInvalidClaims,
			"claim %q has no %q", subjectClaim, subjectIDClaim)
	}

	switch subjectID.Type() {
	case fastjson.TypeString:
		b, err := subjectID.StringBytes()
		if err != nil {
			return "", esiaerr.New(esiaerr.CodeInvalidClaims, err)
		}

		return string(b), nil
	case fastjson.TypeNumber:
		return string(subjectID.MarshalTo(nil)), nil
	default:
		return "", esiaerr.Newf(esiaerr.CodeInvalidClaims,
			"claim %q.%q has unexpected type %s", subjectClaim, subjectIDClaim, subjectID.Type())
	}
}
