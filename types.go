package ecolife

// User is an account that can log in and author comments. The first account
// ever created carries the admin role and owns all content mutation routes.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	IsAdmin      bool
}

// BlogPost is the core content type stored in SQLite and rendered by templates.
// Body holds sanitized HTML; AuthorName is joined from users on read.
type BlogPost struct {
	ID         int64
	AuthorID   int64
	AuthorName string
	Title      string
	Subtitle   string
	Tag        string
	Date       string
	Body       string
	ImgURL     string
}

// Comment is a sanitized-HTML remark attached to a post. AuthorName is joined
// live from users, so renaming an account renames its past comments.
type Comment struct {
	ID         int64
	PostID     int64
	AuthorID   int64
	AuthorName string
	Text       string
}

// Event is a flat calendar entry. Date is stored verbatim as entered.
type Event struct {
	ID         int64
	CalendarID int
	Heading    string
	Text       string
	Date       string
}

// Post tags. Every post carries exactly one.
const (
	TagLifestyle    = "lifestyle"
	TagTechnologies = "technologies"
	TagWaste        = "waste"
)

// PostTags lists the valid tags in display order.
var PostTags = []string{TagLifestyle, TagTechnologies, TagWaste}

// Calendars. Events belong to exactly one.
const (
	CalendarEvents    = 1
	CalendarPurchases = 2
)

// CalendarName returns the display heading for a calendar id.
func CalendarName(id int) string {
	if id == CalendarPurchases {
		return "Sustainable purchases"
	}
	return "Events"
}
