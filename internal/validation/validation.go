// Package validation normalizes and checks contact-form submissions before
// they reach storage.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/leebenson/conform"
	"github.com/portfolio/contact/internal/model"
)

// Length limits in characters. The struct tags in model.Submission refer to
// them through the namemax and messagemax aliases.
const (
	MaxNameLength    = 100
	MaxMessageLength = 1000
)

// emailPattern is local@domain.tld where each part is a run of characters
// that are neither ASCII whitespace, Unicode separators (U+00A0, U+2028, ...)
// nor a byte order mark.
var emailPattern = regexp.MustCompile(`^[^\s\p{Z}\x{FEFF}]+@[^\s\p{Z}\x{FEFF}]+\.[^\s\p{Z}\x{FEFF}]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	v.RegisterAlias("namemax", fmt.Sprintf("max=%d", MaxNameLength))
	v.RegisterAlias("messagemax", fmt.Sprintf("max=%d", MaxMessageLength))
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// messages maps field and rule to the client-facing text.
var messages = map[string]map[string]string{
	"name": {
		"required": "Name is required",
		"namemax":  fmt.Sprintf("Name cannot exceed %d characters", MaxNameLength),
	},
	"email": {
		"required":   "Email is required",
		"emailshape": "Please provide a valid email address",
	},
	"message": {
		"required":   "Message is required",
		"messagemax": fmt.Sprintf("Message cannot exceed %d characters", MaxMessageLength),
	},
}

// FieldError is a single violated field rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every violated field of a submission, in field order.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), "; ")
}

// Messages returns the human-readable text of each violation.
func (e *ValidationError) Messages() []string {
	out := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		out[i] = fe.Message
	}
	return out
}

// First returns the message of the first violation, or "" when there is none.
func (e *ValidationError) First() string {
	if len(e.Errors) == 0 {
		return ""
	}
	return e.Errors[0].Message
}

// Fields returns the names of the violated fields.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		out[i] = fe.Field
	}
	return out
}

// Normalize trims every field and lower-cases the email in place.
func Normalize(sub *model.Submission) error {
	return conform.Strings(sub)
}

// Validate checks a normalized submission and returns a *ValidationError
// collecting all violations, or nil.
func Validate(sub model.Submission) error {
	err := validate.Struct(sub)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{}
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()][fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: fe.Field(), Message: msg})
	}
	return ve
}

// Check normalizes sub and validates it.
func Check(sub *model.Submission) error {
	if err := Normalize(sub); err != nil {
		return err
	}
	return Validate(*sub)
}
