package ecolife

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database and provides CRUD operations for users,
// blog posts, comments and events.
type Store struct {
	db *sql.DB
}

// Sentinel errors mapped from sqlite constraint violations so handlers can
// recover locally instead of surfacing a 500.
var (
	ErrNotFound       = sql.ErrNoRows
	ErrDuplicateEmail = errors.New("email already registered")
	ErrDuplicateTitle = errors.New("post title already exists")
)

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent read/write access, set a busy timeout
	// so writers wait instead of returning SQLITE_BUSY immediately, and turn
	// on foreign keys so comment rows follow their post.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    name TEXT NOT NULL,
    is_admin INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS blog_posts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    author_id INTEGER NOT NULL REFERENCES users(id),
    title TEXT NOT NULL UNIQUE,
    subtitle TEXT NOT NULL,
    tag TEXT NOT NULL,
    date TEXT NOT NULL,
    body TEXT NOT NULL,
    img_url TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS comments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    text TEXT NOT NULL,
    author_id INTEGER NOT NULL REFERENCES users(id),
    post_id INTEGER NOT NULL REFERENCES blog_posts(id) ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    calendar_id INTEGER NOT NULL,
    heading TEXT NOT NULL,
    text TEXT NOT NULL,
    date TEXT NOT NULL
);
`)
	return err
}

// --- Users ---

// CreateUser inserts a new account and returns it with its assigned id.
// The very first account created becomes the administrator; the check and the
// insert share a transaction so two racing signups cannot both win the role.
func (s *Store) CreateUser(email, passwordHash, name string) (User, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return User{}, err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return User{}, err
	}
	isAdmin := count == 0

	res, err := tx.Exec(`INSERT INTO users (email, password_hash, name, is_admin) VALUES (?, ?, ?, ?)`,
		email, passwordHash, name, boolToInt(isAdmin))
	if err != nil {
		if isUniqueViolation(err, "users.email") {
			return User{}, ErrDuplicateEmail
		}
		return User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return User{}, err
	}
	if err := tx.Commit(); err != nil {
		return User{}, err
	}
	return User{ID: id, Email: email, PasswordHash: passwordHash, Name: name, IsAdmin: isAdmin}, nil
}

// UserByEmail returns the account registered under email.
func (s *Store) UserByEmail(email string) (User, error) {
	var u User
	var isAdmin int
	err := s.db.QueryRow(`SELECT id, email, password_hash, name, is_admin FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &isAdmin)
	if err != nil {
		return User{}, err
	}
	u.IsAdmin = isAdmin == 1
	return u, nil
}

// UserByID returns the account with the given id.
func (s *Store) UserByID(id int64) (User, error) {
	var u User
	var isAdmin int
	err := s.db.QueryRow(`SELECT id, email, password_hash, name, is_admin FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &isAdmin)
	if err != nil {
		return User{}, err
	}
	u.IsAdmin = isAdmin == 1
	return u, nil
}

// --- Blog posts ---

const postColumns = `p.id, p.author_id, u.name, p.title, p.subtitle, p.tag, p.date, p.body, p.img_url`

func scanPost(row interface{ Scan(...any) error }) (BlogPost, error) {
	var p BlogPost
	err := row.Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.Title, &p.Subtitle, &p.Tag, &p.Date, &p.Body, &p.ImgURL)
	return p, err
}

// CreatePost inserts a new post and returns its id.
func (s *Store) CreatePost(p BlogPost) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO blog_posts (author_id, title, subtitle, tag, date, body, img_url) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.AuthorID, p.Title, p.Subtitle, p.Tag, p.Date, p.Body, p.ImgURL)
	if err != nil {
		if isUniqueViolation(err, "blog_posts.title") {
			return 0, ErrDuplicateTitle
		}
		return 0, err
	}
	return res.LastInsertId()
}

// UpdatePost rewrites the editable fields of a post in place. The author and
// original date are preserved.
func (s *Store) UpdatePost(p BlogPost) error {
	_, err := s.db.Exec(`UPDATE blog_posts SET title = ?, subtitle = ?, tag = ?, body = ?, img_url = ? WHERE id = ?`,
		p.Title, p.Subtitle, p.Tag, p.Body, p.ImgURL, p.ID)
	if err != nil && isUniqueViolation(err, "blog_posts.title") {
		return ErrDuplicateTitle
	}
	return err
}

// DeletePost removes a post and its comments. The cascade is explicit so the
// policy holds even on a connection where the foreign_keys pragma was lost.
func (s *Store) DeletePost(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM comments WHERE post_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM blog_posts WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// PostByID returns a single post with its author name joined in.
func (s *Store) PostByID(id int64) (BlogPost, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM blog_posts p JOIN users u ON u.id = p.author_id WHERE p.id = ?`, id)
	return scanPost(row)
}

// ListPosts returns all posts newest-first. If tag is non-empty, results are
// filtered to posts carrying that tag.
func (s *Store) ListPosts(tag string) ([]BlogPost, error) {
	var rows *sql.Rows
	var err error
	if tag == "" {
		rows, err = s.db.Query(`SELECT ` + postColumns + ` FROM blog_posts p JOIN users u ON u.id = p.author_id ORDER BY p.id DESC`)
	} else {
		rows, err = s.db.Query(`SELECT `+postColumns+` FROM blog_posts p JOIN users u ON u.id = p.author_id WHERE p.tag = ? ORDER BY p.id DESC`, tag)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// --- Comments ---

// CreateComment attaches a comment to a post and returns its id.
func (s *Store) CreateComment(cm Comment) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO comments (text, author_id, post_id) VALUES (?, ?, ?)`,
		cm.Text, cm.AuthorID, cm.PostID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// CommentsForPost returns a post's comments oldest-first, with the author's
// current display name joined in.
func (s *Store) CommentsForPost(postID int64) ([]Comment, error) {
	rows, err := s.db.Query(`SELECT c.id, c.post_id, c.author_id, u.name, c.text FROM comments c JOIN users u ON u.id = c.author_id WHERE c.post_id = ? ORDER BY c.id`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var cm Comment
		if err := rows.Scan(&cm.ID, &cm.PostID, &cm.AuthorID, &cm.AuthorName, &cm.Text); err != nil {
			return nil, err
		}
		comments = append(comments, cm)
	}
	return comments, rows.Err()
}

// --- Events ---

// CreateEvent inserts a calendar event and returns its id.
func (s *Store) CreateEvent(ev Event) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO events (calendar_id, heading, text, date) VALUES (?, ?, ?, ?)`,
		ev.CalendarID, ev.Heading, ev.Text, ev.Date)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// DeleteEvent removes an event by id.
func (s *Store) DeleteEvent(id int64) error {
	_, err := s.db.Exec(`DELETE FROM events WHERE id = ?`, id)
	return err
}

// EventByID returns a single event.
func (s *Store) EventByID(id int64) (Event, error) {
	var ev Event
	err := s.db.QueryRow(`SELECT id, calendar_id, heading, text, date FROM events WHERE id = ?`, id).
		Scan(&ev.ID, &ev.CalendarID, &ev.Heading, &ev.Text, &ev.Date)
	return ev, err
}

// ListEvents returns events for a calendar, newest-first. A limit of 0 means
// no limit.
func (s *Store) ListEvents(calendarID, limit int) ([]Event, error) {
	q := `SELECT id, calendar_id, heading, text, date FROM events WHERE calendar_id = ? ORDER BY id DESC`
	args := []any{calendarID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.CalendarID, &ev.Heading, &ev.Text, &ev.Date); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on the
// given column. modernc.org/sqlite exposes this only through the message text.
func isUniqueViolation(err error, column string) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: "+column)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
