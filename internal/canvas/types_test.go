// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package canvas

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorForKey(t *testing.T) {
	expected := []Color{ColorGrey, ColorYellow, ColorBlue, ColorPurple, ColorGreen}
	for i, want := range expected {
		got, err := ColorForKey(i + 1)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ColorForKey(0)
	assert.True(t, IsValidation(err))
	_, err = ColorForKey(6)
	assert.True(t, IsValidation(err))
}

func TestColor_Labels(t *testing.T) {
	tests := map[Color]string{
		ColorGrey:   "Trash",
		ColorYellow: "Maybe",
		ColorBlue:   "Decent",
		ColorPurple: "Strong",
		ColorGreen:  "Keeper",
		Color(""):   "Trash",
	}
	for color, label := range tests {
		assert.Equal(t, label, color.Label(), "label for %q", color)
	}
}

func TestColor_UnmarshalJSON(t *testing.T) {
	var a Answer
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","color":"GREEN"}`), &a))
	assert.Equal(t, ColorGreen, a.Color)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","color":null}`), &a))
	assert.Equal(t, ColorGrey, a.Color)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","color":"teal"}`), &a))
	assert.Equal(t, ColorGrey, a.Color)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("Purple")
	require.NoError(t, err)
	assert.Equal(t, ColorPurple, c)

	_, err = ParseColor("")
	assert.True(t, IsValidation(err))
}

func TestNewAnswer_DefaultsToGrey(t *testing.T) {
	a := NewAnswer("a1", "text", testNow)
	assert.Equal(t, ColorGrey, a.Color)
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		require.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestErrors_Classification(t *testing.T) {
	remote := NewRemoteStoreError("adding concept", "network unreachable", errors.New("dial tcp"))
	wrapped := fmt.Errorf("outer: %w", remote)

	assert.True(t, IsRemote(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.Equal(t, "Error adding concept: network unreachable", UserMessage(wrapped))
	assert.ErrorContains(t, remote, "dial tcp")

	v := NewValidationError("text", "is required")
	assert.Equal(t, "Invalid text: is required", UserMessage(v))

	nf := NewNotFoundError("question", "q1")
	assert.Equal(t, "question not found", UserMessage(nf))
	assert.Equal(t, "boom", UserMessage(errors.New("boom")))
}
