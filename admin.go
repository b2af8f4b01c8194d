package ecolife

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// Admin-only content mutation handlers. All of these sit behind requireAdmin
// and redirect after a successful POST so a refresh cannot resubmit.

const postDateLayout = "January 2, 2006"

func (a *App) handleNewPostForm(c echo.Context) error {
	return Render(c, a.PostFormPage(c, "New Post", PostForm{}, nil, "/new-post"))
}

func (a *App) handleCreatePost(c echo.Context) error {
	u, _ := CurrentUser(c)
	var f PostForm
	fields, err := bindForm(c, &f)
	if err != nil {
		return err
	}
	if fields != nil {
		return Render(c, a.PostFormPage(c, "New Post", f, fields, "/new-post"))
	}

	_, err = a.Store.CreatePost(BlogPost{
		AuthorID: u.ID,
		Title:    f.Title,
		Subtitle: f.Subtitle,
		Tag:      f.Tag,
		Date:     time.Now().Format(postDateLayout),
		Body:     Sanitize(f.Body),
		ImgURL:   f.ImgURL,
	})
	if errors.Is(err, ErrDuplicateTitle) {
		fields = FieldErrors{"title": "A post with that title already exists."}
		return Render(c, a.PostFormPage(c, "New Post", f, fields, "/new-post"))
	}
	if err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleEditPostForm(c echo.Context) error {
	post, err := a.postFromPath(c)
	if err != nil {
		return err
	}
	f := PostForm{
		Title:    post.Title,
		Subtitle: post.Subtitle,
		Tag:      post.Tag,
		ImgURL:   post.ImgURL,
		Body:     post.Body,
	}
	action := "/edit-post/" + strconv.FormatInt(post.ID, 10)
	return Render(c, a.PostFormPage(c, "Edit Post", f, nil, action))
}

func (a *App) handleUpdatePost(c echo.Context) error {
	post, err := a.postFromPath(c)
	if err != nil {
		return err
	}
	action := "/edit-post/" + strconv.FormatInt(post.ID, 10)

	var f PostForm
	fields, err := bindForm(c, &f)
	if err != nil {
		return err
	}
	if fields != nil {
		return Render(c, a.PostFormPage(c, "Edit Post", f, fields, action))
	}

	post.Title = f.Title
	post.Subtitle = f.Subtitle
	post.Tag = f.Tag
	post.ImgURL = f.ImgURL
	post.Body = Sanitize(f.Body)
	err = a.Store.UpdatePost(post)
	if errors.Is(err, ErrDuplicateTitle) {
		fields = FieldErrors{"title": "A post with that title already exists."}
		return Render(c, a.PostFormPage(c, "Edit Post", f, fields, action))
	}
	if err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/post/"+strconv.FormatInt(post.ID, 10))
}

// handleDeletePost removes a post and, by policy, its comments.
func (a *App) handleDeletePost(c echo.Context) error {
	post, err := a.postFromPath(c)
	if err != nil {
		return err
	}
	if err := a.Store.DeletePost(post.ID); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleNewEventForm(c echo.Context) error {
	return Render(c, a.EventFormPage(c, EventForm{}, nil))
}

func (a *App) handleCreateEvent(c echo.Context) error {
	var f EventForm
	fields, err := bindForm(c, &f)
	if err != nil {
		return err
	}
	if fields != nil {
		return Render(c, a.EventFormPage(c, f, fields))
	}

	if _, err := a.Store.CreateEvent(Event{
		CalendarID: f.CalendarID,
		Heading:    f.Heading,
		Text:       f.Text,
		Date:       f.Date,
	}); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/calendar/"+strconv.Itoa(f.CalendarID))
}

func (a *App) handleDeleteEvent(c echo.Context) error {
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
	if err := a.Store.DeleteEvent(ev.ID); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.Redirect(http.StatusSeeOther, "/calendar/"+strconv.Itoa(ev.CalendarID))
}
