// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tejzpr/ideacanvas-mcp/internal/canvas"
)

var validate = validator.New()

type nameInput struct {
	Name string `validate:"required,max=200"`
}

type textInput struct {
	Text string `validate:"required,max=2000"`
}

type colorInput struct {
	Color string `validate:"required,oneof=grey yellow blue purple green"`
}

// cleanName trims and validates a concept or session name
func cleanName(name string) (string, error) {
	in := nameInput{Name: strings.TrimSpace(name)}
	if err := validateStruct(in); err != nil {
		return "", err
	}
	return in.Name, nil
}

// cleanText trims and validates question or answer text
func cleanText(text string) (string, error) {
	in := textInput{Text: strings.TrimSpace(text)}
	if err := validateStruct(in); err != nil {
		return "", err
	}
	return in.Text, nil
}

// cleanColor lowercases and validates a color name
func cleanColor(color string) (canvas.Color, error) {
	in := colorInput{Color: strings.ToLower(strings.TrimSpace(color))}
	if err := validateStruct(in); err != nil {
		return "", err
	}
	return canvas.Color(in.Color), nil
}

// validateStruct validates s and returns the first failure as a canvas.ValidationError
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		e := validationErrors[0]
		return canvas.NewValidationError(strings.ToLower(e.Field()), formatFieldError(e))
	}
	return err
}

// formatFieldError formats a single field validation error
func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	default:
		return "is invalid"
	}
}
