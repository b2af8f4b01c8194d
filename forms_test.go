package ecolife

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validate(t *testing.T, form any) FieldErrors {
	t.Helper()
	err := NewFormValidator().Validate(form)
	if err == nil {
		return nil
	}
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected *ValidationError, got %v", err)
	return ve.Fields
}

func TestContactFormValidation(t *testing.T) {
	fields := validate(t, ContactForm{Name: "A", Email: "a@b.com", Phone: "123", Message: "hi"})
	assert.Nil(t, fields)

	fields = validate(t, ContactForm{Name: "A", Email: "not-an-email", Phone: "123", Message: "hi"})
	require.NotNil(t, fields)
	assert.Contains(t, fields, "email")

	fields = validate(t, ContactForm{})
	require.NotNil(t, fields)
	// All-or-nothing: every missing field gets its own message.
	assert.Len(t, fields, 4)
	assert.Equal(t, "This field is required.", fields["name"])
}

func TestRegisterFormValidation(t *testing.T) {
	fields := validate(t, RegisterForm{Name: "A", Email: "a@b.com", Password: "longenough"})
	assert.Nil(t, fields)

	fields = validate(t, RegisterForm{Name: "A", Email: "a@b.com", Password: "short"})
	require.NotNil(t, fields)
	assert.Contains(t, fields["password"], "at least 8")
}

func TestPostFormValidation(t *testing.T) {
	ok := PostForm{Title: "T", Subtitle: "S", Tag: TagWaste, ImgURL: "https://example.com/a.jpg", Body: "<p>b</p>"}
	assert.Nil(t, validate(t, ok))

	bad := ok
	bad.Tag = "gardening"
	fields := validate(t, bad)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "tag")

	bad = ok
	bad.ImgURL = "not a url"
	fields = validate(t, bad)
	require.NotNil(t, fields)
	assert.Equal(t, "Must be a valid URL.", fields["img_url"])
}

func TestEventFormValidation(t *testing.T) {
	ok := EventForm{CalendarID: CalendarPurchases, Heading: "H", Text: "T", Date: "03.09.2026"}
	assert.Nil(t, validate(t, ok))

	bad := ok
	bad.CalendarID = 7
	fields := validate(t, bad)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "calendar_id")
}
