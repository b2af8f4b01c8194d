package ecolife

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// RegisterPage renders the signup form.
func (a *App) RegisterPage(c echo.Context, f RegisterForm, errs FieldErrors) templ.Component {
	return a.page(c, "Register", func(b *strings.Builder, d viewData) {
		b.WriteString("<h1>Register</h1>\n")
		writeFieldError(b, "form", errs)
		b.WriteString("<form method=\"post\" action=\"/register\">\n")
		writeCSRF(b, d.CSRF)
		writeInput(b, "text", "name", "Name", f.Name, errs)
		writeInput(b, "email", "email", "Email", f.Email, errs)
		writeInput(b, "password", "password", "Password", "", errs)
		b.WriteString("<button type=\"submit\">Sign up</button>\n</form>\n")
		b.WriteString("<p>Already have an account? <a href=\"/login\">Log in.</a></p>\n")
	})
}

// LoginPage renders the login form.
func (a *App) LoginPage(c echo.Context, f LoginForm, errs FieldErrors) templ.Component {
	return a.page(c, "Log In", func(b *strings.Builder, d viewData) {
		b.WriteString("<h1>Log In</h1>\n")
		writeFieldError(b, "form", errs)
		b.WriteString("<form method=\"post\" action=\"/login\">\n")
		writeCSRF(b, d.CSRF)
		writeInput(b, "email", "email", "Email", f.Email, errs)
		writeInput(b, "password", "password", "Password", "", errs)
		b.WriteString("<button type=\"submit\">Let me in</button>\n</form>\n")
		b.WriteString("<p>No account yet? <a href=\"/register\">Register.</a></p>\n")
	})
}

// PostFormPage renders the authoring form for both new and edited posts;
// action distinguishes them.
func (a *App) PostFormPage(c echo.Context, title string, f PostForm, errs FieldErrors, action string) templ.Component {
	return a.page(c, title, func(b *strings.Builder, d viewData) {
		fmt.Fprintf(b, "<h1>%s</h1>\n", esc(title))
		writeFieldError(b, "form", errs)
		fmt.Fprintf(b, "<form method=\"post\" action=\"%s\">\n", esc(action))
		writeCSRF(b, d.CSRF)
		writeInput(b, "text", "title", "Title", f.Title, errs)
		writeInput(b, "text", "subtitle", "Subtitle", f.Subtitle, errs)
		b.WriteString("<label for=\"tag\">Tag</label>\n<select id=\"tag\" name=\"tag\">\n")
		for _, tag := range PostTags {
			selected := ""
			if tag == f.Tag {
				selected = " selected"
			}
			fmt.Fprintf(b, "<option value=\"%s\"%s>%s</option>\n", tag, selected, esc(titleCase(tag)))
		}
		b.WriteString("</select>\n")
		writeFieldError(b, "tag", errs)
		writeInput(b, "url", "img_url", "Image URL", f.ImgURL, errs)
		writeTextarea(b, "body", "Body", f.Body, 16, errs)
		b.WriteString("<button type=\"submit\">Save post</button>\n</form>\n")
	})
}

// EventFormPage renders the event authoring form.
func (a *App) EventFormPage(c echo.Context, f EventForm, errs FieldErrors) templ.Component {
	return a.page(c, "New Event", func(b *strings.Builder, d viewData) {
		b.WriteString("<h1>New Event</h1>\n")
		writeFieldError(b, "form", errs)
		b.WriteString("<form method=\"post\" action=\"/new-event\">\n")
		writeCSRF(b, d.CSRF)
		b.WriteString("<label for=\"calendar_id\">Calendar</label>\n<select id=\"calendar_id\" name=\"calendar_id\">\n")
		for _, id := range []int{CalendarEvents, CalendarPurchases} {
			selected := ""
			if id == f.CalendarID {
				selected = " selected"
			}
			fmt.Fprintf(b, "<option value=\"%d\"%s>%s</option>\n", id, selected, esc(CalendarName(id)))
		}
		b.WriteString("</select>\n")
		writeFieldError(b, "calendar_id", errs)
		writeInput(b, "text", "heading", "Heading", f.Heading, errs)
		writeTextarea(b, "text", "Text", f.Text, 6, errs)
		writeInput(b, "text", "date", "Date", f.Date, errs)
		b.WriteString("<button type=\"submit\">Save event</button>\n</form>\n")
	})
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
