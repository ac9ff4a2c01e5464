// Package prompt fills a payload form through sequential terminal prompts
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/thereceipt/qr-engine/pkg/qrformat"
)

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrTooManyAttempts is returned when a field keeps failing validation
	ErrTooManyAttempts = errors.New("prompt: too many invalid attempts")
)

// maxAttempts bounds how often one field is asked again after a failed encode
const maxAttempts = 5

// Form asks for the fields of one payload kind
type Form struct {
	driver Driver
}

// New creates a form on top of driver; nil uses survey
func New(driver Driver) *Form {
	if driver == nil {
		driver = NewSurveyDriver()
	}
	return &Form{driver: driver}
}

// ChooseKind asks which kind of code to create
func (f *Form) ChooseKind(ctx context.Context) (qrformat.Kind, error) {
	kinds := qrformat.AllKinds()
	labels := make([]string, len(kinds))
	for i, k := range kinds {
		labels[i] = k.Label()
	}

	idx, err := f.driver.Select(ctx, SelectConfig{
		Message:  "QR type:",
		Options:  labels,
		PageSize: len(labels),
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(kinds) {
		return "", qrformat.ErrUnsupportedKind
	}
	return kinds[idx], nil
}

// Confirm asks a yes/no question, defaulting to no
func (f *Form) Confirm(ctx context.Context, message string) (bool, error) {
	return f.driver.Confirm(ctx, ConfirmConfig{Message: message})
}

// Fill asks every field of kind and returns the values together with the
// encoded payload. A field named by a validation error is asked again.
func (f *Form) Fill(ctx context.Context, kind qrformat.Kind) (map[string]string, string, error) {
	fields := qrformat.SchemaFor(kind)
	if fields == nil {
		return nil, "", qrformat.ErrUnsupportedKind
	}

	values := make(map[string]string, len(fields))
	for _, field := range fields {
		v, err := f.ask(ctx, field, "")
		if err != nil {
			return nil, "", err
		}
		values[field.ID] = v
	}

	for attempt := 0; ; attempt++ {
		payload, err := qrformat.Encode(kind, qrformat.MapGetter(values))
		if err == nil {
			return values, payload, nil
		}

		var ve *qrformat.ValidationError
		if !errors.As(err, &ve) || ve.Field == "" {
			return nil, "", err
		}
		if attempt >= maxAttempts {
			return nil, "", fmt.Errorf("%w: %s", ErrTooManyAttempts, ve.Message)
		}
		if err := f.driver.Info(ctx, "✗ "+ve.Message); err != nil {
			return nil, "", err
		}

		field, ok := qrformat.Field(kind, ve.Field)
		if !ok {
			return nil, "", err
		}
		v, err := f.ask(ctx, field, values[field.ID])
		if err != nil {
			return nil, "", err
		}
		values[field.ID] = v
	}
}

// ask prompts for one field with the input suited to its kind
func (f *Form) ask(ctx context.Context, field qrformat.FieldDescriptor, current string) (string, error) {
	message := field.Label + ":"

	switch field.Input {
	case qrformat.InputSelect:
		def := indexOf(field.Options, current)
		if def < 0 {
			def = indexOf(field.Options, field.Default)
		}
		idx, err := f.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      field.Options,
			DefaultIndex: def,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(field.Options) {
			return "", fmt.Errorf("invalid choice for %s", field.ID)
		}
		return field.Options[idx], nil

	case qrformat.InputTextarea:
		return f.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: current,
			Help:    helpFor(field),
		})

	case qrformat.InputPassword:
		return f.driver.Password(ctx, InputConfig{
			Message:   message,
			Help:      helpFor(field),
			Validator: requiredValidator(field),
		})

	default:
		return f.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   current,
			Help:      helpFor(field),
			Validator: validatorFor(field),
		})
	}
}

func helpFor(field qrformat.FieldDescriptor) string {
	if field.Required {
		return "Required"
	}
	return "Optional, leave empty to skip"
}

func requiredValidator(field qrformat.FieldDescriptor) func(string) error {
	if !field.Required {
		return nil
	}
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field.Label)
		}
		return nil
	}
}

func validatorFor(field qrformat.FieldDescriptor) func(string) error {
	required := requiredValidator(field)
	if field.Input != qrformat.InputNumber {
		return required
	}
	return func(s string) error {
		if required != nil {
			if err := required(s); err != nil {
				return err
			}
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return fmt.Errorf("%s must be a number", field.Label)
		}
		return nil
	}
}
