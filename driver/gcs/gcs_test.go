package gcs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"github.com/gobeaver/ufs"
	"github.com/gobeaver/ufs/driver/remote"
)

func TestCannedACL(t *testing.T) {
	tests := []struct {
		name  string
		rules []storage.ACLRule
		want  string
	}{
		{"no rules", nil, "private"},
		{"owner only", []storage.ACLRule{{Entity: "user-owner@example.com", Role: storage.RoleOwner}}, "private"},
		{"all users read", []storage.ACLRule{{Entity: storage.AllUsers, Role: storage.RoleReader}}, "public-read"},
		{"all users write", []storage.ACLRule{{Entity: storage.AllUsers, Role: storage.RoleWriter}}, "public-read-write"},
		{"authenticated", []storage.ACLRule{{Entity: storage.AllAuthenticatedUsers, Role: storage.RoleReader}}, "authenticated-read"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cannedACL(tt.rules); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestMapGCSError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"object not exist", storage.ErrObjectNotExist, ufs.ErrNotExist},
		{"bucket not exist", fmt.Errorf("attrs: %w", storage.ErrBucketNotExist), ufs.ErrNotExist},
		{"forbidden", &googleapi.Error{Code: http.StatusForbidden}, ufs.ErrPermission},
		{"unauthorized", &googleapi.Error{Code: http.StatusUnauthorized}, remote.ErrNotConnected},
		{"conflict", &googleapi.Error{Code: http.StatusConflict}, ufs.ErrExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := mapGCSError(tt.err); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDisconnected(t *testing.T) {
	s := New(Options{ProjectID: "p"})
	if s.Connected() {
		t.Fatal("expected new store to be disconnected")
	}
	if _, err := s.Find(context.Background(), "b", "k"); !errors.Is(err, remote.ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
	if err := s.Disconnect(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
