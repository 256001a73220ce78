package auth

import (
	"context"
	"testing"

	"github.com/2389/inkwell/internal/store"
)

func TestWithViewer_RoundTrip(t *testing.T) {
	viewer := &Viewer{ID: "user-1", Name: "Ada", Email: "ada@example.com", Role: store.RoleAdmin}

	ctx := WithViewer(context.Background(), viewer)
	got := ViewerFromContext(ctx)

	if got == nil {
		t.Fatal("expected viewer in context")
	}
	if got.ID != "user-1" || got.Email != "ada@example.com" {
		t.Errorf("unexpected viewer: %+v", got)
	}
	if !got.IsAdmin() {
		t.Error("expected admin viewer")
	}
}

func TestViewerFromContext_Empty(t *testing.T) {
	if got := ViewerFromContext(context.Background()); got != nil {
		t.Errorf("expected nil viewer, got %+v", got)
	}
}

func TestViewerForUser(t *testing.T) {
	user := &store.User{
		ID:           "user-2",
		Name:         "Grace",
		Email:        "grace@example.com",
		PasswordHash: "hash",
		Role:         store.RoleUser,
	}

	viewer := ViewerForUser(user)
	if viewer.ID != "user-2" || viewer.Name != "Grace" || viewer.Role != store.RoleUser {
		t.Errorf("unexpected viewer: %+v", viewer)
	}
	if viewer.IsAdmin() {
		t.Error("expected non-admin viewer")
	}
}
