// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package auth resolves the owning-user id that scopes every remote read and write.
package auth

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Authenticator resolves the id of the user owning the canvas
type Authenticator interface {
	UserID(ctx context.Context) (string, error)
}

// LocalAuthenticator handles local system authentication
type LocalAuthenticator struct {
	useAccessingUser bool // If true, use ACCESSING_USER env var instead of whoami
	whoami           func() (string, error)
}

// NewLocalAuthenticator creates a new local authenticator
func NewLocalAuthenticator() *LocalAuthenticator {
	return &LocalAuthenticator{
		useAccessingUser: false,
		whoami:           systemWhoami,
	}
}

// NewLocalAuthenticatorWithAccessingUser creates a local authenticator that uses ACCESSING_USER env var
func NewLocalAuthenticatorWithAccessingUser() *LocalAuthenticator {
	return &LocalAuthenticator{
		useAccessingUser: true,
		whoami:           systemWhoami,
	}
}

// GetLocalUsername gets the username based on configuration:
// - If useAccessingUser is true: use ACCESSING_USER env var (for MCP servers called by authenticated systems)
// - Otherwise: use whoami (default for standalone usage)
func (l *LocalAuthenticator) GetLocalUsername() (string, error) {
	if l.useAccessingUser {
		username := strings.TrimSpace(os.Getenv("ACCESSING_USER"))
		if username == "" {
			return "", fmt.Errorf("ACCESSING_USER environment variable is required but not set")
		}
		return username, nil
	}
	return l.whoami()
}

// UserID returns the local username; rows in the SQL store are owned by it
func (l *LocalAuthenticator) UserID(_ context.Context) (string, error) {
	return l.GetLocalUsername()
}

func systemWhoami() (string, error) {
	cmd := exec.Command("whoami")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get username via whoami: %w", err)
	}
	username := strings.TrimSpace(string(output))
	if username == "" {
		return "", fmt.Errorf("whoami returned empty username")
	}
	return username, nil
}

// StaticAuthenticator always returns the same user id
type StaticAuthenticator string

// UserID implements Authenticator
func (s StaticAuthenticator) UserID(_ context.Context) (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", fmt.Errorf("user id is empty")
	}
	return string(s), nil
}
