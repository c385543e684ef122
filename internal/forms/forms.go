// Package forms checks and renders the answers a visitor gives to a form
// template. Answers are rendered to text only and never stored.
package forms

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"sepri/internal/domain"
)

// Responses maps field ids to answers.
type Responses map[string]string

const missing = "N/A"

var whitespace = regexp.MustCompile(`\s+`)

// FieldError reports every field that failed validation.
type FieldError struct {
	Fields []string
}

func (e *FieldError) Error() string {
	return "invalid responses for: " + strings.Join(e.Fields, ", ")
}

func (e *FieldError) Unwrap() error {
	return domain.ErrValidation
}

// Validate requires every required field to be answered and checkbox
// answers to be yes or no.
func Validate(form domain.FormTemplate, responses Responses) error {
	var bad []string
	for _, f := range form.Fields {
		value := strings.TrimSpace(responses[f.ID])
		switch {
		case f.Required && value == "":
			bad = append(bad, f.Label)
		case f.Type == domain.FieldCheckbox && value != "":
			if _, err := checkbox(value); err != nil {
				bad = append(bad, f.Label)
			}
		}
	}
	if len(bad) > 0 {
		return &FieldError{Fields: bad}
	}
	return nil
}

// Render validates responses and returns the download filename and body.
func Render(form domain.FormTemplate, protocolTitle string, responses Responses) (string, string, error) {
	if err := Validate(form, responses); err != nil {
		return "", "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "FORMULARIO: %s\nEVENTO: %s\n\nRESPUESTAS:\n", form.Title, protocolTitle)
	for _, f := range form.Fields {
		value := strings.TrimSpace(responses[f.ID])
		if f.Type == domain.FieldCheckbox && value != "" {
			value, _ = checkbox(value)
		}
		if value == "" {
			value = missing
		}
		fmt.Fprintf(&b, "%s: %s\n", f.Label, value)
	}

	return Filename(form), b.String(), nil
}

// Filename is the form title with whitespace runs replaced by underscores.
func Filename(form domain.FormTemplate) string {
	return whitespace.ReplaceAllString(form.Title, "_") + ".txt"
}

var errCheckbox = errors.New("checkbox answer must be si or no")

func checkbox(value string) (string, error) {
	switch strings.ToLower(value) {
	case "si", "sí", "yes", "true":
		return "Sí", nil
	case "no", "false":
		return "No", nil
	}
	return "", errCheckbox
}
