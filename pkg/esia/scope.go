/*
Copyright IDResolve Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package esia

import (
	"strings"

	"github.com/samber/lo"
)

// Scope is a permission identifier requested from the identity provider.
type Scope string

// Scopes supported by the identity provider.
const (
	ScopeAuthorization      Scope = "openid"
	ScopeFullname           Scope = "fullname"
	ScopeBirthdate          Scope = "birthdate"
	ScopeSex                Scope = "gender"
	ScopeSNILS              Scope = "snils"
	ScopeINN                Scope = "inn"
	ScopeDocuments          Scope = "id_doc"
	ScopeBirthplace         Scope = "birthplace"
	ScopeEmail              Scope = "email"
	ScopePhone              Scope = "mobile"
	ScopeBiometry           Scope = "bio"
	ScopeVerificationResult Scope = "ext_auth_result"
)

func (s Scope) String() string {
	return string(s)
}

// JoinScopes serializes scopes to the provider's space-joined form, keeping
// the order given by the caller.
func JoinScopes(scopes []Scope) string {
	return strings.Join(lo.Map(scopes, func(s Scope, _ int) string {
		return string(s)
	}), " ")
}
