package ecolife

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// One validated-input struct per route. Validation is all-or-nothing: any
// field failure blocks the side effect and the form is re-rendered with the
// per-field messages from FieldErrors.

// ContactForm is the contact-page submission relayed by email.
type ContactForm struct {
	Name    string `form:"name" validate:"required"`
	Email   string `form:"email" validate:"required,email"`
	Phone   string `form:"phone" validate:"required"`
	Message string `form:"message" validate:"required"`
}

// RegisterForm creates a new account.
type RegisterForm struct {
	Name     string `form:"name" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=8"`
}

// LoginForm authenticates an existing account.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// PostForm creates or edits a blog post.
type PostForm struct {
	Title    string `form:"title" validate:"required"`
	Subtitle string `form:"subtitle" validate:"required"`
	Tag      string `form:"tag" validate:"required,oneof=lifestyle technologies waste"`
	ImgURL   string `form:"img_url" validate:"required,url"`
	Body     string `form:"body" validate:"required"`
}

// CommentForm attaches a comment to a post.
type CommentForm struct {
	Text string `form:"text" validate:"required"`
}

// EventForm creates a calendar event.
type EventForm struct {
	CalendarID int    `form:"calendar_id" validate:"required,oneof=1 2"`
	Heading    string `form:"heading" validate:"required"`
	Text       string `form:"text" validate:"required"`
	Date       string `form:"date" validate:"required"`
}

// FieldErrors maps form field names to user-facing validation messages.
type FieldErrors map[string]string

// ValidationError carries per-field messages out of the validator so handlers
// can re-render the submitted form.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// FormValidator adapts go-playground/validator to echo's Validator interface.
type FormValidator struct {
	v *validator.Validate
}

// NewFormValidator creates the validator used for all form schemas. Error
// messages are keyed by the form tag name so views can address them directly.
func NewFormValidator() *FormValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("form"); name != "" {
			return name
		}
		return fld.Name
	})
	return &FormValidator{v: v}
}

// Validate implements echo.Validator.
func (fv *FormValidator) Validate(s any) error {
	err := fv.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(FieldErrors, len(verrs))
	for _, e := range verrs {
		fields[e.Field()] = friendlyMessage(e)
	}
	return &ValidationError{Fields: fields}
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Must be a valid email address."
	case "url":
		return "Must be a valid URL."
	case "min":
		return fmt.Sprintf("Must be at least %s characters.", e.Param())
	case "oneof":
		return "Must be one of: " + e.Param() + "."
	default:
		return "This value is invalid."
	}
}

// bindForm binds and validates a submitted form. It returns the per-field
// messages for a validation failure, or a non-nil error for anything that is
// not a validation outcome (malformed body, internal validator fault).
func bindForm(c echo.Context, form any) (FieldErrors, error) {
	if err := c.Bind(form); err != nil {
		return FieldErrors{"form": "Invalid form submission."}, nil
	}
	if err := c.Validate(form); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return ve.Fields, nil
		}
		return nil, err
	}
	return nil, nil
}
