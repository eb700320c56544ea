// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/supabase-community/supabase-go"
)

// TokenVerifier exchanges an access token for the id of its user
type TokenVerifier func(token string) (string, error)

// SupabaseAuthenticator resolves the signed-in user from a Supabase access token.
// The lookup happens once; the id is cached for the life of the process.
type SupabaseAuthenticator struct {
	token  string
	verify TokenVerifier

	mu     sync.Mutex
	userID string
}

// NewSupabaseAuthenticator verifies tokens against the project's auth API
func NewSupabaseAuthenticator(url, key, accessToken string) (*SupabaseAuthenticator, error) {
	client, err := supabase.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	verify := func(token string) (string, error) {
		// GetUser does not take a context
		user, err := client.Auth.WithToken(token).GetUser()
		if err != nil {
			return "", err
		}
		return user.ID.String(), nil
	}
	return NewSupabaseAuthenticatorWithVerifier(accessToken, verify), nil
}

// NewSupabaseAuthenticatorWithVerifier uses a custom verifier
func NewSupabaseAuthenticatorWithVerifier(accessToken string, verify TokenVerifier) *SupabaseAuthenticator {
	return &SupabaseAuthenticator{token: accessToken, verify: verify}
}

// UserID implements Authenticator
func (s *SupabaseAuthenticator) UserID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID != "" {
		return s.userID, nil
	}
	if s.token == "" {
		return "", fmt.Errorf("supabase access token is required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id, err := s.verify(s.token)
	if err != nil {
		return "", fmt.Errorf("invalid supabase access token: %w", err)
	}
	if id == "" {
		return "", fmt.Errorf("supabase returned an empty user id")
	}
	s.userID = id
	return id, nil
}
