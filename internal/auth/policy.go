// ABOUTME: Authorization policy for posts, centralized capability checks
// ABOUTME: CanView/CanModify/ScopeFor are the only permission decisions in the app

package auth

import (
	"github.com/2389/inkwell/internal/store"
)

// CanView reports whether the viewer may read the post. True when the post
// is visible, the viewer is an admin, or the viewer authored the post.
//
// Limited visibility is intentionally not special-cased here: a limited post
// appears in authenticated list results (see ScopeFor) but this read check
// follows the stricter general rule. Callers that deny based on CanView must
// respond "not found", never "forbidden".
func CanView(viewer *Viewer, post *store.Post) bool {
	if post.Visibility == store.VisibilityVisible {
		return true
	}
	if viewer == nil {
		return false
	}
	return viewer.IsAdmin() || post.AuthorID == viewer.ID
}

// CanModify reports whether the viewer may update or destroy the post.
// True only for admins and the post's author.
func CanModify(viewer *Viewer, post *store.Post) bool {
	if viewer == nil {
		return false
	}
	return viewer.IsAdmin() || post.AuthorID == viewer.ID
}

// ScopeFor derives the post listing scope for a viewer: admins list
// everything, authenticated viewers get visible and limited posts plus their
// own hidden ones, anonymous visitors get visible posts only.
func ScopeFor(viewer *Viewer) store.PostScope {
	if viewer == nil {
		return store.PostScope{}
	}
	if viewer.IsAdmin() {
		return store.PostScope{Admin: true}
	}
	return store.PostScope{ViewerID: viewer.ID}
}
