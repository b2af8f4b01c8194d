package ecolife

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Views are plain-Go templ components: each page builds its HTML into a
// buffer inside a templ.ComponentFunc. Values derived from user input go
// through esc; post bodies and comment text are already sanitized on write
// and are emitted verbatim.

// viewData carries the per-request state every page needs.
type viewData struct {
	Cfg     SiteConfig
	User    *User
	Flashes []string
	CSRF    string
}

func (a *App) viewData(c echo.Context) viewData {
	d := viewData{
		Cfg:     a.Config,
		CSRF:    CsrfToken(c),
		Flashes: takeFlashes(c),
	}
	if u, ok := CurrentUser(c); ok {
		d.User = &u
	}
	return d
}

func component(f func(b *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		f(&b)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func esc(s string) string { return html.EscapeString(s) }

// page wraps body in the shared layout: head, nav, flashes, footer.
func (a *App) page(c echo.Context, title string, body func(b *strings.Builder, d viewData)) templ.Component {
	d := a.viewData(c)
	return component(func(b *strings.Builder) {
		b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
		b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
		fmt.Fprintf(b, "<title>%s — %s</title>\n", esc(title), esc(d.Cfg.Name))
		if d.Cfg.Description != "" {
			fmt.Fprintf(b, "<meta name=\"description\" content=\"%s\">\n", esc(d.Cfg.Description))
		}
		b.WriteString("<link rel=\"stylesheet\" href=\"/public/styles.css\">\n</head>\n<body>\n")
		writeNav(b, d)
		for _, msg := range d.Flashes {
			fmt.Fprintf(b, "<div class=\"flash\">%s</div>\n", esc(msg))
		}
		b.WriteString("<main class=\"container\">\n")
		body(b, d)
		b.WriteString("</main>\n<footer class=\"footer\"><p>")
		b.WriteString(esc(d.Cfg.Name))
		b.WriteString("</p></footer>\n</body>\n</html>\n")
	})
}

func writeNav(b *strings.Builder, d viewData) {
	b.WriteString("<nav class=\"nav\">\n")
	fmt.Fprintf(b, "<a class=\"brand\" href=\"/\">%s</a>\n<ul>\n", esc(d.Cfg.Name))
	b.WriteString("<li><a href=\"/\">Blog</a></li>\n")
	b.WriteString("<li><a href=\"/calendar/1\">Events</a></li>\n")
	b.WriteString("<li><a href=\"/calendar/2\">Purchases</a></li>\n")
	b.WriteString("<li><a href=\"/calculator\">Calculator</a></li>\n")
	b.WriteString("<li><a href=\"/contact\">Contact</a></li>\n")
	if d.User != nil {
		if d.User.IsAdmin {
			b.WriteString("<li><a href=\"/new-post\">New Post</a></li>\n")
			b.WriteString("<li><a href=\"/new-event\">New Event</a></li>\n")
		}
		fmt.Fprintf(b, "<li class=\"nav-user\">%s</li>\n", esc(d.User.Name))
		b.WriteString("<li><a href=\"/logout\">Log Out</a></li>\n")
	} else {
		b.WriteString("<li><a href=\"/login\">Log In</a></li>\n")
		b.WriteString("<li><a href=\"/register\">Register</a></li>\n")
	}
	b.WriteString("</ul>\n</nav>\n")
}

// --- Form building blocks ---

func writeFieldError(b *strings.Builder, name string, errs FieldErrors) {
	if msg, ok := errs[name]; ok {
		fmt.Fprintf(b, "<p class=\"field-error\">%s</p>\n", esc(msg))
	}
}

func writeInput(b *strings.Builder, typ, name, label, value string, errs FieldErrors) {
	fmt.Fprintf(b, "<label for=\"%s\">%s</label>\n", name, esc(label))
	fmt.Fprintf(b, "<input type=\"%s\" id=\"%s\" name=\"%s\" value=\"%s\">\n", typ, name, name, esc(value))
	writeFieldError(b, name, errs)
}

func writeTextarea(b *strings.Builder, name, label, value string, rows int, errs FieldErrors) {
	fmt.Fprintf(b, "<label for=\"%s\">%s</label>\n", name, esc(label))
	fmt.Fprintf(b, "<textarea id=\"%s\" name=\"%s\" rows=\"%d\">%s</textarea>\n", name, name, rows, esc(value))
	writeFieldError(b, name, errs)
}

func writeCSRF(b *strings.Builder, token string) {
	fmt.Fprintf(b, "<input type=\"hidden\" name=\"_csrf\" value=\"%s\">\n", esc(token))
}

func writeContactForm(b *strings.Builder, d viewData, action string, f ContactForm, errs FieldErrors, msgSent bool) {
	b.WriteString("<section class=\"contact\">\n<h2>Contact</h2>\n")
	if msgSent {
		b.WriteString("<p class=\"msg-sent\">Your message has been sent.</p>\n")
	}
	writeFieldError(b, "form", errs)
	fmt.Fprintf(b, "<form method=\"post\" action=\"%s\">\n", action)
	writeCSRF(b, d.CSRF)
	writeInput(b, "text", "name", "Name", f.Name, errs)
	writeInput(b, "email", "email", "Email", f.Email, errs)
	writeInput(b, "text", "phone", "Phone number", f.Phone, errs)
	writeTextarea(b, "message", "Message", f.Message, 5, errs)
	b.WriteString("<button type=\"submit\">Send</button>\n</form>\n</section>\n")
}

// --- Pages ---

func writePostCard(b *strings.Builder, p BlogPost) {
	b.WriteString("<article class=\"post-card\">\n")
	if p.ImgURL != "" {
		fmt.Fprintf(b, "<img src=\"%s\" alt=\"%s\">\n", esc(p.ImgURL), esc(p.Title))
	}
	fmt.Fprintf(b, "<h3><a href=\"/post/%d\">%s</a></h3>\n", p.ID, esc(p.Title))
	fmt.Fprintf(b, "<p class=\"subtitle\">%s</p>\n", esc(p.Subtitle))
	fmt.Fprintf(b, "<p class=\"meta\">%s · %s · <span class=\"tag\">%s</span></p>\n",
		esc(p.AuthorName), esc(p.Date), esc(p.Tag))
	b.WriteString("</article>\n")
}

func writeEventCard(b *strings.Builder, ev Event, admin bool) {
	b.WriteString("<article class=\"event-card\">\n")
	fmt.Fprintf(b, "<h3><a href=\"/event/%d\">%s</a></h3>\n", ev.ID, esc(ev.Heading))
	fmt.Fprintf(b, "<p class=\"meta\">%s</p>\n", esc(ev.Date))
	if admin {
		fmt.Fprintf(b, "<p><a class=\"danger\" href=\"/delete_event/%d\">Delete</a></p>\n", ev.ID)
	}
	b.WriteString("</article>\n")
}

// HomePage renders the listing: every post, per-tag sections, the latest
// events of both calendars, and the embedded contact form.
func (a *App) HomePage(c echo.Context, posts []BlogPost, byTag map[string][]BlogPost, events map[int][]Event, contact ContactForm, errs FieldErrors, msgSent bool) templ.Component {
	return a.page(c, "Home", func(b *strings.Builder, d viewData) {
		b.WriteString("<section class=\"events\">\n")
		for _, id := range []int{CalendarEvents, CalendarPurchases} {
			fmt.Fprintf(b, "<div class=\"calendar-preview\">\n<h2><a href=\"/calendar/%d\">%s</a></h2>\n", id, esc(CalendarName(id)))
			for _, ev := range events[id] {
				writeEventCard(b, ev, false)
			}
			b.WriteString("</div>\n")
		}
		b.WriteString("</section>\n")

		b.WriteString("<section class=\"posts\">\n<h2>Latest posts</h2>\n")
		for _, p := range posts {
			writePostCard(b, p)
		}
		b.WriteString("</section>\n")

		for _, tag := range PostTags {
			fmt.Fprintf(b, "<section class=\"posts posts-%s\">\n<h2>%s</h2>\n", tag, esc(titleCase(tag)))
			for _, p := range byTag[tag] {
				writePostCard(b, p)
			}
			b.WriteString("</section>\n")
		}

		writeContactForm(b, d, "/", contact, errs, msgSent)
	})
}

// ContactPage is the standalone contact form.
func (a *App) ContactPage(c echo.Context, f ContactForm, errs FieldErrors, msgSent bool) templ.Component {
	return a.page(c, "Contact", func(b *strings.Builder, d viewData) {
		writeContactForm(b, d, "/contact", f, errs, msgSent)
	})
}

// PostPage renders one post, its comments and the comment form.
func (a *App) PostPage(c echo.Context, p BlogPost, comments []Comment, f CommentForm, errs FieldErrors) templ.Component {
	return a.page(c, p.Title, func(b *strings.Builder, d viewData) {
		b.WriteString("<article class=\"post\">\n")
		fmt.Fprintf(b, "<h1>%s</h1>\n<p class=\"subtitle\">%s</p>\n", esc(p.Title), esc(p.Subtitle))
		fmt.Fprintf(b, "<p class=\"meta\">%s · %s · <span class=\"tag\">%s</span></p>\n",
			esc(p.AuthorName), esc(p.Date), esc(p.Tag))
		if p.ImgURL != "" {
			fmt.Fprintf(b, "<img src=\"%s\" alt=\"%s\">\n", esc(p.ImgURL), esc(p.Title))
		}
		// Body was sanitized before storage.
		b.WriteString("<div class=\"post-body\">\n")
		b.WriteString(p.Body)
		b.WriteString("\n</div>\n")
		if d.User != nil && d.User.IsAdmin {
			fmt.Fprintf(b, "<p class=\"admin-actions\"><a href=\"/edit-post/%d\">Edit</a> <a class=\"danger\" href=\"/delete/%d\">Delete</a></p>\n", p.ID, p.ID)
		}
		b.WriteString("</article>\n")

		fmt.Fprintf(b, "<section class=\"comments\">\n<h2>Comments (%d)</h2>\n", len(comments))
		for _, cm := range comments {
			b.WriteString("<div class=\"comment\">\n")
			fmt.Fprintf(b, "<p class=\"comment-author\">%s</p>\n", esc(cm.AuthorName))
			b.WriteString("<div class=\"comment-text\">")
			b.WriteString(cm.Text)
			b.WriteString("</div>\n</div>\n")
		}
		fmt.Fprintf(b, "<form method=\"post\" action=\"/post/%d\">\n", p.ID)
		writeCSRF(b, d.CSRF)
		writeTextarea(b, "text", "Add a comment", f.Text, 4, errs)
		b.WriteString("<button type=\"submit\">Submit comment</button>\n</form>\n</section>\n")
	})
}

// CalendarPage lists every event of one calendar.
func (a *App) CalendarPage(c echo.Context, calendarID int, events []Event) templ.Component {
	return a.page(c, CalendarName(calendarID), func(b *strings.Builder, d viewData) {
		fmt.Fprintf(b, "<h1>%s</h1>\n", esc(CalendarName(calendarID)))
		admin := d.User != nil && d.User.IsAdmin
		for _, ev := range events {
			writeEventCard(b, ev, admin)
		}
		if len(events) == 0 {
			b.WriteString("<p>No entries yet.</p>\n")
		}
	})
}

// EventPage is the single-event detail view.
func (a *App) EventPage(c echo.Context, ev Event) templ.Component {
	return a.page(c, ev.Heading, func(b *strings.Builder, d viewData) {
		b.WriteString("<article class=\"event\">\n")
		fmt.Fprintf(b, "<h1>%s</h1>\n<p class=\"meta\">%s · %s</p>\n",
			esc(ev.Heading), esc(ev.Date), esc(CalendarName(ev.CalendarID)))
		fmt.Fprintf(b, "<p>%s</p>\n", esc(ev.Text))
		if d.User != nil && d.User.IsAdmin {
			fmt.Fprintf(b, "<p><a class=\"danger\" href=\"/delete_event/%d\">Delete</a></p>\n", ev.ID)
		}
		b.WriteString("</article>\n")
	})
}

// CalculatorPage is a static view; the footprint widget is client-side.
func (a *App) CalculatorPage(c echo.Context) templ.Component {
	return a.page(c, "Footprint calculator", func(b *strings.Builder, d viewData) {
		b.WriteString("<h1>Footprint calculator</h1>\n")
		b.WriteString("<div id=\"calculator\"></div>\n")
		b.WriteString("<script src=\"/public/calculator.js\"></script>\n")
	})
}

// --- Error pages ---

func (a *App) NotFoundPage(c echo.Context) templ.Component {
	return a.page(c, "Not found", func(b *strings.Builder, d viewData) {
		b.WriteString("<h1>404</h1>\n<p>That page does not exist. <a href=\"/\">Back to the blog.</a></p>\n")
	})
}

func (a *App) ForbiddenPage(c echo.Context) templ.Component {
	return a.page(c, "Forbidden", func(b *strings.Builder, d viewData) {
		b.WriteString("<h1>403</h1>\n<p>You are not allowed to do that.</p>\n")
	})
}

func (a *App) ServerErrorPage(c echo.Context) templ.Component {
	return a.page(c, "Server error", func(b *strings.Builder, d viewData) {
		b.WriteString("<h1>500</h1>\n<p>Something went wrong on our side.</p>\n")
	})
}
