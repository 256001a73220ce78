// ABOUTME: Store interfaces and entity types for inkwell persistence
// ABOUTME: Defines User, Post, Comment, Article, Session and validation rules

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when creating a user with an email that is
// already registered.
var ErrEmailExists = errors.New("email already exists")

// ErrSessionNotFound is returned when a session doesn't exist or is expired.
var ErrSessionNotFound = errors.New("session not found")

// Role represents a user's role.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ValidRoles lists all assignable roles.
var ValidRoles = []Role{RoleUser, RoleAdmin}

// Visibility controls who may read and list a post.
type Visibility string

const (
	// VisibilityVisible posts are public: anyone, including anonymous
	// visitors, can read and list them.
	VisibilityVisible Visibility = "visible"

	// VisibilityHidden posts are restricted to their author and admins.
	VisibilityHidden Visibility = "hidden"

	// VisibilityLimited posts are listed for any authenticated viewer but
	// excluded from anonymous listings.
	VisibilityLimited Visibility = "limited"
)

// ValidVisibilities lists all post visibility settings.
var ValidVisibilities = []Visibility{VisibilityVisible, VisibilityHidden, VisibilityLimited}

// CommentableKind identifies the entity kind a comment is attached to.
type CommentableKind string

const (
	CommentablePost    CommentableKind = "post"
	CommentableArticle CommentableKind = "article"
)

// CommentableRef is a tagged reference to a comment target. It replaces the
// dynamic polymorphic association of the original data model with an explicit
// (kind, id) pair.
type CommentableRef struct {
	Kind CommentableKind
	ID   string
}

// Validation bounds for posts and comments, counted in characters
// (runes), not bytes.
const (
	MaxTitleLength = 255
	MaxBodyLength  = 5000
)

// User represents an account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt hash
	Role         Role
	CreatedAt    time.Time
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Post represents authored content with per-post visibility.
type Post struct {
	ID         string
	Title      string
	Body       string
	AuthorID   string
	Visibility Visibility
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Comment represents a note attached to a commentable entity. AuthorID is
// empty for anonymous comments.
type Comment struct {
	ID          string
	Body        string
	Commentable CommentableRef
	AuthorID    string
	CreatedAt   time.Time
}

// Article is a legacy authored entity. It has no visibility setting and only
// a minimal read surface, but it can still receive comments.
type Article struct {
	ID        string
	Title     string
	Body      string
	AuthorID  string
	CreatedAt time.Time
}

// Session represents an authenticated login session. The ID doubles as the
// opaque token handed to the client in a cookie.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ValidationError reports field-level constraint violations. Writes that
// return a ValidationError persist nothing.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s %s", name, e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks the post's field constraints. It returns a
// *ValidationError listing every violated field, or nil.
func (p *Post) Validate() error {
	fields := map[string]string{}
	if p.Title == "" {
		fields["title"] = "is required"
	} else if utf8.RuneCountInString(p.Title) > MaxTitleLength {
		fields["title"] = fmt.Sprintf("must be at most %d characters", MaxTitleLength)
	}
	if p.Body == "" {
		fields["body"] = "is required"
	} else if utf8.RuneCountInString(p.Body) > MaxBodyLength {
		fields["body"] = fmt.Sprintf("must be at most %d characters", MaxBodyLength)
	}
	if p.AuthorID == "" {
		fields["author"] = "is required"
	}
	if p.Visibility != "" && !validVisibility(p.Visibility) {
		fields["visibility"] = "must be one of visible, hidden, limited"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Validate checks the comment's field constraints.
func (c *Comment) Validate() error {
	fields := map[string]string{}
	if c.Body == "" {
		fields["body"] = "is required"
	} else if utf8.RuneCountInString(c.Body) > MaxBodyLength {
		fields["body"] = fmt.Sprintf("must be at most %d characters", MaxBodyLength)
	}
	switch c.Commentable.Kind {
	case CommentablePost, CommentableArticle:
		if c.Commentable.ID == "" {
			fields["commentable"] = "is required"
		}
	default:
		fields["commentable"] = "must reference a post or an article"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func validVisibility(v Visibility) bool {
	for _, valid := range ValidVisibilities {
		if v == valid {
			return true
		}
	}
	return false
}

// PostScope restricts a post listing to what a given viewer may see.
// The zero value is the anonymous scope (public posts only).
type PostScope struct {
	// Admin lifts all visibility filtering.
	Admin bool
	// ViewerID is the authenticated viewer's user ID, empty for anonymous
	// visitors. Authenticated viewers see visible and limited posts plus
	// their own hidden posts.
	ViewerID string
}

// UserStore defines persistence operations for users.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	CountUsers(ctx context.Context) (int, error)
	UpdateUserRole(ctx context.Context, id string, role Role) error
	DeleteUser(ctx context.Context, id string) error
}

// SessionStore defines persistence operations for login sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, id string) (*Session, error)
	// DeleteSession removes a session; a missing session is a no-op.
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// PostStore defines persistence operations for posts.
type PostStore interface {
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id string) (*Post, error)
	// ListPosts returns the posts the scope permits, newest created first.
	ListPosts(ctx context.Context, scope PostScope) ([]*Post, error)
	UpdatePost(ctx context.Context, post *Post) error
	DeletePost(ctx context.Context, id string) error
}

// CommentStore defines persistence operations for comments.
type CommentStore interface {
	CreateComment(ctx context.Context, comment *Comment) error
	GetComment(ctx context.Context, id string) (*Comment, error)
	// ListComments returns the comments attached to the given target,
	// newest first.
	ListComments(ctx context.Context, ref CommentableRef) ([]*Comment, error)
}

// ArticleStore defines persistence operations for articles.
type ArticleStore interface {
	CreateArticle(ctx context.Context, article *Article) error
	GetArticle(ctx context.Context, id string) (*Article, error)
	ListArticles(ctx context.Context) ([]*Article, error)
}

// Store combines all persistence interfaces.
type Store interface {
	UserStore
	SessionStore
	PostStore
	CommentStore
	ArticleStore

	Close() error
}
