// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLocalUsername(t *testing.T) {
	localAuth := NewLocalAuthenticator()
	localAuth.whoami = func() (string, error) { return "alex", nil }

	username, err := localAuth.GetLocalUsername()
	require.NoError(t, err)
	assert.Equal(t, "alex", username)

	id, err := localAuth.UserID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alex", id)
}

func TestGetLocalUsername_WhoamiFails(t *testing.T) {
	localAuth := NewLocalAuthenticator()
	localAuth.whoami = func() (string, error) { return "", errors.New("no whoami") }

	_, err := localAuth.UserID(context.Background())
	assert.Error(t, err)
}

func TestGetLocalUsername_AccessingUser(t *testing.T) {
	t.Setenv("ACCESSING_USER", "  casey ")
	localAuth := NewLocalAuthenticatorWithAccessingUser()

	username, err := localAuth.GetLocalUsername()
	require.NoError(t, err)
	assert.Equal(t, "casey", username)
}

func TestGetLocalUsername_AccessingUserMissing(t *testing.T) {
	t.Setenv("ACCESSING_USER", "")
	localAuth := NewLocalAuthenticatorWithAccessingUser()

	_, err := localAuth.GetLocalUsername()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ACCESSING_USER")
}

func TestStaticAuthenticator(t *testing.T) {
	id, err := StaticAuthenticator("u1").UserID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", id)

	_, err = StaticAuthenticator(" ").UserID(context.Background())
	assert.Error(t, err)
}
