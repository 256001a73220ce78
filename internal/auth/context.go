// ABOUTME: Viewer context for tracking identity through request handlers
// ABOUTME: Provides WithViewer/ViewerFromContext for propagating identity via context

package auth

import (
	"context"

	"github.com/2389/inkwell/internal/store"
)

// Viewer holds the authenticated identity resolved from a request.
// A nil *Viewer means the request is anonymous.
type Viewer struct {
	ID    string
	Name  string
	Email string
	Role  store.Role
}

// IsAdmin returns true if the viewer has the admin role.
func (v *Viewer) IsAdmin() bool {
	return v != nil && v.Role == store.RoleAdmin
}

// viewerContextKey is the key type for storing a Viewer in context.Context.
type viewerContextKey struct{}

// WithViewer returns a new context with the Viewer attached.
func WithViewer(ctx context.Context, viewer *Viewer) context.Context {
	return context.WithValue(ctx, viewerContextKey{}, viewer)
}

// ViewerFromContext retrieves the Viewer from the context, returning nil if
// the request is anonymous.
func ViewerFromContext(ctx context.Context) *Viewer {
	val := ctx.Value(viewerContextKey{})
	if val == nil {
		return nil
	}
	viewer, ok := val.(*Viewer)
	if !ok {
		return nil
	}
	return viewer
}

// ViewerForUser builds a Viewer from a stored user record.
func ViewerForUser(user *store.User) *Viewer {
	return &Viewer{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}
