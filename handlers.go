package ecolife

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func (a *App) handleHome(c echo.Context) error {
	return a.renderHome(c, ContactForm{}, nil, false)
}

// handleHomeContact processes the contact form embedded on the home page.
func (a *App) handleHomeContact(c echo.Context) error {
	f, fields, err := a.processContact(c)
	if err != nil {
		return err
	}
	return a.renderHome(c, f, fields, fields == nil)
}

func (a *App) renderHome(c echo.Context, contact ContactForm, fields FieldErrors, msgSent bool) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	byTag := make(map[string][]BlogPost, len(PostTags))
	for _, p := range posts {
		byTag[p.Tag] = append(byTag[p.Tag], p)
	}
	events, err := a.Cache.HomeEvents()
	if err != nil {
		return err
	}
	return Render(c, a.HomePage(c, posts, byTag, events, contact, fields, msgSent))
}

func (a *App) handleContactForm(c echo.Context) error {
	return Render(c, a.ContactPage(c, ContactForm{}, nil, false))
}

func (a *App) handleContact(c echo.Context) error {
	f, fields, err := a.processContact(c)
	if err != nil {
		return err
	}
	return Render(c, a.ContactPage(c, f, fields, fields == nil))
}

// processContact validates the submission and, when valid, relays it by
// email. Delivery failure is logged and swallowed: the visitor sees success
// either way, the notification channel is not part of the user contract.
func (a *App) processContact(c echo.Context) (ContactForm, FieldErrors, error) {
	var f ContactForm
	fields, err := bindForm(c, &f)
	if err != nil || fields != nil {
		return f, fields, err
	}
	msg := ContactMessage{Name: f.Name, Email: f.Email, Phone: f.Phone, Message: f.Message}
	if err := a.mailer.Send(c.Request().Context(), msg); err != nil {
		a.log.Error("contact notification failed", "from", f.Email, "error", err)
	}
	return f, nil, nil
}

func (a *App) handleShowPost(c echo.Context) error {
	post, err := a.postFromPath(c)
	if err != nil {
		return err
	}
	return a.renderPost(c, post, CommentForm{}, nil)
}

// handleAddComment accepts a comment on a post. Requires a logged-in session;
// the body is sanitized before it is stored.
func (a *App) handleAddComment(c echo.Context) error {
	post, err := a.postFromPath(c)
	if err != nil {
		return err
	}
	u, ok := CurrentUser(c)
	if !ok {
		if err := flash(c, flashLoginToComment); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	var f CommentForm
	fields, err := bindForm(c, &f)
	if err != nil {
		return err
	}
	if fields != nil {
		return a.renderPost(c, post, f, fields)
	}

	if _, err := a.Store.CreateComment(Comment{
		PostID:   post.ID,
		AuthorID: u.ID,
		Text:     Sanitize(f.Text),
	}); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/post/"+strconv.FormatInt(post.ID, 10))
}

func (a *App) renderPost(c echo.Context, post BlogPost, f CommentForm, fields FieldErrors) error {
	comments, err := a.Store.CommentsForPost(post.ID)
	if err != nil {
		return err
	}
	return Render(c, a.PostPage(c, post, comments, f, fields))
}

func (a *App) postFromPath(c echo.Context) (BlogPost, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return BlogPost{}, echo.ErrNotFound
	}
	post, err := a.Store.PostByID(id)
	if errors.Is(err, ErrNotFound) {
		return BlogPost{}, echo.ErrNotFound
	}
	return post, err
}

func (a *App) handleCalendar(c echo.Context) error {
	calendarID, err := strconv.Atoi(c.Param("calendarID"))
	if err != nil || (calendarID != CalendarEvents && calendarID != CalendarPurchases) {
		return echo.ErrNotFound
	}
	events, err := a.Store.ListEvents(calendarID, 0)
	if err != nil {
		return err
	}
	return Render(c, a.CalendarPage(c, calendarID, events))
}

func (a *App) handleShowEvent(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.ErrNotFound
	}
	ev, err := a.Store.EventByID(id)
	if errors.Is(err, ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	return Render(c, a.EventPage(c, ev))
}

func (a *App) handleCalculator(c echo.Context) error {
	return Render(c, a.CalculatorPage(c))
}

// handleRobots generates robots.txt dynamically using the site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nAllow: /\n\nSitemap: " + a.Config.URL + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}
