// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows handler tests to run without SQLite

package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MockStore is an in-memory Store implementation for testing. It mirrors
// SQLiteStore's behavior, including the deletion asymmetry: deleting a user
// removes their posts, articles, comments, and sessions, while deleting a
// post leaves its comments in place.
type MockStore struct {
	mu       sync.RWMutex
	users    map[string]*User    // keyed by user ID
	sessions map[string]*Session // keyed by session ID
	posts    map[string]*Post    // keyed by post ID
	comments map[string]*Comment // keyed by comment ID
	articles map[string]*Article // keyed by article ID
}

// Ensure MockStore implements Store.
var _ Store = (*MockStore)(nil)

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		users:    make(map[string]*User),
		sessions: make(map[string]*Session),
		posts:    make(map[string]*Post),
		comments: make(map[string]*Comment),
		articles: make(map[string]*Article),
	}
}

// CreateUser stores a new user.
func (m *MockStore) CreateUser(ctx context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == user.Email {
			return ErrEmailExists
		}
	}

	if user.Role == "" {
		user.Role = RoleUser
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	// Make a copy to avoid external modification
	u := *user
	m.users[u.ID] = &u
	return nil
}

// GetUser retrieves a user by ID.
func (m *MockStore) GetUser(ctx context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	result := *u
	return &result, nil
}

// GetUserByEmail retrieves a user by email.
func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, ErrNotFound
}

// ListUsers returns all users, oldest first.
func (m *MockStore) ListUsers(ctx context.Context) ([]*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]*User, 0, len(m.users))
	for _, u := range m.users {
		result := *u
		users = append(users, &result)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

// CountUsers returns the number of registered users.
func (m *MockStore) CountUsers(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}

// UpdateUserRole changes a user's role.
func (m *MockStore) UpdateUserRole(ctx context.Context, id string, role Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Role = role
	return nil
}

// DeleteUser deletes a user and cascades to their posts, articles, comments,
// and sessions.
func (m *MockStore) DeleteUser(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)

	for postID, post := range m.posts {
		if post.AuthorID == id {
			delete(m.posts, postID)
		}
	}
	for articleID, article := range m.articles {
		if article.AuthorID == id {
			delete(m.articles, articleID)
		}
	}
	for commentID, comment := range m.comments {
		if comment.AuthorID == id {
			delete(m.comments, commentID)
		}
	}
	for sessionID, session := range m.sessions {
		if session.UserID == id {
			delete(m.sessions, sessionID)
		}
	}
	return nil
}

// CreateSession stores a new session.
func (m *MockStore) CreateSession(ctx context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := *session
	m.sessions[s.ID] = &s
	return nil
}

// GetSession retrieves a valid (non-expired) session.
func (m *MockStore) GetSession(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok || !s.ExpiresAt.After(time.Now()) {
		return nil, ErrSessionNotFound
	}
	result := *s
	return &result, nil
}

// DeleteSession deletes a session.
func (m *MockStore) DeleteSession(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// DeleteExpiredSessions removes all expired sessions.
func (m *MockStore) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	now := time.Now()
	for id, s := range m.sessions {
		if !s.ExpiresAt.After(now) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// CreatePost validates and stores a new post.
func (m *MockStore) CreatePost(ctx context.Context, post *Post) error {
	if post.Visibility == "" {
		post.Visibility = VisibilityVisible
	}
	if err := post.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = post.CreatedAt
	}

	p := *post
	m.posts[p.ID] = &p
	return nil
}

// GetPost retrieves a post by ID.
func (m *MockStore) GetPost(ctx context.Context, id string) (*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	result := *p
	return &result, nil
}

// ListPosts returns the posts the scope permits, newest created first.
func (m *MockStore) ListPosts(ctx context.Context, scope PostScope) ([]*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var posts []*Post
	for _, p := range m.posts {
		if !scopePermits(scope, p) {
			continue
		}
		result := *p
		posts = append(posts, &result)
	}
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func scopePermits(scope PostScope, p *Post) bool {
	switch {
	case scope.Admin:
		return true
	case scope.ViewerID != "":
		if p.Visibility == VisibilityVisible || p.Visibility == VisibilityLimited {
			return true
		}
		return p.Visibility == VisibilityHidden && p.AuthorID == scope.ViewerID
	default:
		return p.Visibility == VisibilityVisible
	}
}

// UpdatePost validates and stores changes to a post.
func (m *MockStore) UpdatePost(ctx context.Context, post *Post) error {
	if err := post.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.posts[post.ID]
	if !ok {
		return ErrNotFound
	}

	post.UpdatedAt = time.Now()
	existing.Title = post.Title
	existing.Body = post.Body
	existing.Visibility = post.Visibility
	existing.UpdatedAt = post.UpdatedAt
	return nil
}

// DeletePost deletes a post. Comments attached to it are left in place.
func (m *MockStore) DeletePost(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[id]; !ok {
		return ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

// CreateComment validates and stores a new comment.
func (m *MockStore) CreateComment(ctx context.Context, comment *Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	c := *comment
	m.comments[c.ID] = &c
	return nil
}

// GetComment retrieves a comment by ID.
func (m *MockStore) GetComment(ctx context.Context, id string) (*Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	result := *c
	return &result, nil
}

// ListComments returns the comments attached to the given target, newest first.
func (m *MockStore) ListComments(ctx context.Context, ref CommentableRef) ([]*Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var comments []*Comment
	for _, c := range m.comments {
		if c.Commentable == ref {
			result := *c
			comments = append(comments, &result)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID > comments[j].ID
		}
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

// CreateArticle stores a new article.
func (m *MockStore) CreateArticle(ctx context.Context, article *Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now()
	}

	a := *article
	m.articles[a.ID] = &a
	return nil
}

// GetArticle retrieves an article by ID.
func (m *MockStore) GetArticle(ctx context.Context, id string) (*Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.articles[id]
	if !ok {
		return nil, ErrNotFound
	}
	result := *a
	return &result, nil
}

// ListArticles returns all articles, newest first.
func (m *MockStore) ListArticles(ctx context.Context) ([]*Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var articles []*Article
	for _, a := range m.articles {
		result := *a
		articles = append(articles, &result)
	}
	sort.Slice(articles, func(i, j int) bool {
		if articles[i].CreatedAt.Equal(articles[j].CreatedAt) {
			return articles[i].ID > articles[j].ID
		}
		return articles[i].CreatedAt.After(articles[j].CreatedAt)
	})
	return articles, nil
}

// Close is a no-op for the mock store.
func (m *MockStore) Close() error {
	return nil
}
