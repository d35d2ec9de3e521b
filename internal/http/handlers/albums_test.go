package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/albumhub/internal/domain/album"
	"github.com/geocoder89/albumhub/internal/http/handlers"
	"github.com/geocoder89/albumhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// Fake repository implementation of the handlers.AlbumsStore interface

type fakeAlbumsRepo struct {
	createFn    func(ctx context.Context, a album.Album) (album.Album, error)
	getFn       func(ctx context.Context, id string) (album.Album, error)
	updateFn    func(ctx context.Context, id string, req album.UpdateAlbumRequest) (album.Album, error)
	deleteFn    func(ctx context.Context, id string) error
	getCalls    int
	updateCalls int
	deleteCalls int
}

func (f *fakeAlbumsRepo) Create(ctx context.Context, a album.Album) (album.Album, error) {
	if f.createFn != nil {
		return f.createFn(ctx, a)
	}
	return a, nil
}

func (f *fakeAlbumsRepo) GetByID(ctx context.Context, id string) (album.Album, error) {
	f.getCalls++
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return album.Album{}, album.ErrNotFound
}

func (f *fakeAlbumsRepo) Update(ctx context.Context, id string, req album.UpdateAlbumRequest) (album.Album, error) {
	f.updateCalls++
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}
	return album.Album{}, album.ErrNotFound
}

func (f *fakeAlbumsRepo) Delete(ctx context.Context, id string) error {
	f.deleteCalls++
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return album.ErrNotFound
}

// test double for the bearer middleware: plants a verified identity

func asUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(string(middlewares.CtxUserID), id)
		c.Next()
	}
}

func TestCreateAlbumHandler(t *testing.T) {
	ownerID := newUUID()

	tests := []struct {
		name           string
		body           string
		identity       gin.HandlerFunc
		repoSetUp      func(*fakeAlbumsRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{
				"name": "example album name",
				"description": "example album description"
			}`,
			identity: asUser(ownerID),
			repoSetUp: func(f *fakeAlbumsRepo) {
				f.createFn = func(ctx context.Context, a album.Album) (album.Album, error) {
					if a.UserID != ownerID {
						t.Fatalf("owner not taken from identity: got %q, want %q", a.UserID, ownerID)
					}
					return a, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "owner_from_body_ignored",
			body: `{
				"name": "example album name",
				"description": "example album description",
				"userID": "attacker-chosen"
			}`,
			identity: asUser(ownerID),
			repoSetUp: func(f *fakeAlbumsRepo) {
				f.createFn = func(ctx context.Context, a album.Album) (album.Album, error) {
					if a.UserID != ownerID {
						t.Fatalf("client-supplied owner was trusted: %q", a.UserID)
					}
					return a, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "validation_error",
			body:           `{"name": "", "description": ""}`,
			identity:       asUser(ownerID),
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "missing_identity",
			body: `{
				"name": "example album name",
				"description": "example album description"
			}`,
			identity:       func(c *gin.Context) { c.Next() },
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name: "repo_error",
			body: `{
				"name": "example album name",
				"description": "example album description"
			}`,
			identity: asUser(ownerID),
			repoSetUp: func(f *fakeAlbumsRepo) {
				f.createFn = func(ctx context.Context, a album.Album) (album.Album, error) {
					return album.Album{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeAlbumsRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewAlbumsHandler(repo)

			r := setupRouter(http.MethodPost, "/api/album", tt.identity, h.CreateAlbum)

			req := httptest.NewRequest(http.MethodPost, "/api/album", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				var got album.Album
				if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if got.UserID != ownerID {
					t.Fatalf("response owner %q, want %q", got.UserID, ownerID)
				}
				if got.Created.IsZero() {
					t.Fatalf("expected created timestamp to be set")
				}
			}
		})
	}
}

func TestGetAlbumByIdHandler(t *testing.T) {
	ownerID := newUUID()
	otherID := newUUID()
	validID := newUUID()
	missingID := newUUID()

	owned := album.Album{
		ID:          validID,
		Name:        "example album name",
		Description: "example album description",
		Created:     time.Now().UTC(),
		UserID:      ownerID,
	}

	tests := []struct {
		name           string
		url            string
		identity       gin.HandlerFunc
		repoSetUp      func(*fakeAlbumsRepo)
		wantStatusCode int
		wantGetCalls   int
	}{
		{
			name:     "success_as_owner",
			url:      "/api/album/" + validID,
			identity: asUser(ownerID),
			repoSetUp: func(f *fakeAlbumsRepo) {
				f.getFn = func(ctx context.Context, id string) (album.Album, error) {
					return owned, nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantGetCalls:   1,
		},
		{
			name:     "ownership_mismatch",
			url:      "/api/album/" + validID,
			identity: asUser(otherID),
			repoSetUp: func(f *fakeAlbumsRepo) {
				f.getFn = func(ctx context.Context, id string) (album.Album, error) {
					return owned, nil
				}
			},
			wantStatusCode: http.StatusUnauthorized,
			wantGetCalls:   1,
		},
		{
			name:           "not_found",
			url:            "/api/album/" + missingID,
			identity:       asUser(ownerID),
			wantStatusCode: http.StatusNotFound,
			wantGetCalls:   1,
		},
		{
			name:     "malformed_id",
			url:      "/api/album/not-a-uuid",
			identity: asUser(ownerID),
			// no storage round trip for an id that cannot exist
			wantStatusCode: http.StatusNotFound,
			wantGetCalls:   0,
		},
		{
			name:     "repo_error",
			url:      "/api/album/" + validID,
			identity: asUser(ownerID),
			repoSetUp: func(f *fakeAlbumsRepo) {
				f.getFn = func(ctx context.Context, id string) (album.Album, error) {
					return album.Album{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
			wantGetCalls:   1,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeAlbumsRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewAlbumsHandler(repo)
			r := setupRouter(http.MethodGet, "/api/album/:id", tt.identity, h.GetAlbumById)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if repo.getCalls != tt.wantGetCalls {
				t.Fatalf("got %d get calls, want %d", repo.getCalls, tt.wantGetCalls)
			}

			// an ownership failure must not leak the resource body
			if tt.wantStatusCode == http.StatusUnauthorized && strings.Contains(w.Body.String(), owned.Name) {
				t.Fatalf("response leaked album data: %s", w.Body.String())
			}
		})
	}
}

func TestUpdateAlbumHandler(t *testing.T) {
	ownerID := newUUID()
	otherID := newUUID()
	validID := newUUID()

	owned := album.Album{
		ID:          validID,
		Name:        "example album name",
		Description: "example album description",
		Created:     time.Now().UTC(),
		UserID:      ownerID,
	}

	validBody := `{
		"name": "updated name",
		"description": "updated description"
	}`

	tests := []struct {
		name            string
		url             string
		body            string
		identity        gin.HandlerFunc
		repoSetUp       func(*fakeAlbumsRepo)
		wantStatusCode  int
		wantGetCalls    int
		wantUpdateCalls int
	}{
		{
			name:     "success",
			url:      "/api/album/" + validID,
			body:     validBody,
			identity: asUser(ownerID),
			repoSetUp: func(f *fakeAlbumsRepo) {
				f.getFn = func(ctx context.Context, id string) (album.Album, error) {
					return owned, nil
				}
				f.updateFn = func(ctx context.Context, id string, req album.UpdateAlbumRequest) (album.Album, error) {
					updated := owned
					updated.Name = req.Name
					updated.Description = req.Description
					return updated, nil
				}
			},
			wantStatusCode:  http.StatusOK,
			wantGetCalls:    1,
			wantUpdateCalls: 1,
		},
		{
			name:     "invalid_body_leaves_album_unmodified",
			url:      "/api/album/" + validID,
			body:     `{"name": "", "description": ""}`,
			identity: asUser(ownerID),
			// validation fails before any storage access
			wantStatusCode:  http.StatusBadRequest,
			wantGetCalls:    0,
			wantUpdateCalls: 0,
		},
		{
			name:     "ownership_mismatch",
			url:      "/api/album/" + validID,
			body:     validBody,
			identity: asUser(otherID),
			repoSetUp: func(f *fakeAlbumsRepo) {
				f.getFn = func(ctx context.Context, id string) (album.Album, error) {
					return owned, nil
				}
			},
			wantStatusCode:  http.StatusUnauthorized,
			wantGetCalls:    1,
			wantUpdateCalls: 0,
		},
		{
			name:            "not_found",
			url:             "/api/album/" + newUUID(),
			body:            validBody,
			identity:        asUser(ownerID),
			wantStatusCode:  http.StatusNotFound,
			wantGetCalls:    1,
			wantUpdateCalls: 0,
		},
		{
			name:     "repo_error",
			url:      "/api/album/" + validID,
			body:     validBody,
			identity: asUser(ownerID),
			repoSetUp: func(f *fakeAlbumsRepo) {
				f.getFn = func(ctx context.Context, id string) (album.Album, error) {
					return owned, nil
				}
				f.updateFn = func(ctx context.Context, id string, req album.UpdateAlbumRequest) (album.Album, error) {
					return album.Album{}, errors.New("db error")
				}
			},
			wantStatusCode:  http.StatusInternalServerError,
			wantGetCalls:    1,
			wantUpdateCalls: 1,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeAlbumsRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewAlbumsHandler(repo)

			r := setupRouter(http.MethodPut, "/api/album/:id", tt.identity, h.UpdateAlbum)
			req := httptest.NewRequest(http.MethodPut, tt.url, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if repo.getCalls != tt.wantGetCalls {
				t.Fatalf("got %d get calls, want %d", repo.getCalls, tt.wantGetCalls)
			}

			if repo.updateCalls != tt.wantUpdateCalls {
				t.Fatalf("got %d update calls, want %d", repo.updateCalls, tt.wantUpdateCalls)
			}
		})
	}
}

func TestDeleteAlbumHandler(t *testing.T) {
	ownerID := newUUID()
	otherID := newUUID()
	validID := newUUID()

	owned := album.Album{
		ID:      validID,
		Name:    "example album name",
		Created: time.Now().UTC(),
		UserID:  ownerID,
	}

	tests := []struct {
		name            string
		url             string
		identity        gin.HandlerFunc
		repoSetUp       func(*fakeAlbumsRepo)
		wantStatusCode  int
		wantDeleteCalls int
	}{
		{
			name:     "success",
			url:      "/api/album/" + validID,
			identity: asUser(ownerID),
			repoSetUp: func(f *fakeAlbumsRepo) {
				f.getFn = func(ctx context.Context, id string) (album.Album, error) {
					return owned, nil
				}
				f.deleteFn = func(ctx context.Context, id string) error {
					return nil
				}
			},
			wantStatusCode:  http.StatusNoContent,
			wantDeleteCalls: 1,
		},
		{
			name:     "ownership_mismatch",
			url:      "/api/album/" + validID,
			identity: asUser(otherID),
			repoSetUp: func(f *fakeAlbumsRepo) {
				f.getFn = func(ctx context.Context, id string) (album.Album, error) {
					return owned, nil
				}
			},
			wantStatusCode:  http.StatusUnauthorized,
			wantDeleteCalls: 0,
		},
		{
			name:            "not_found",
			url:             "/api/album/" + newUUID(),
			identity:        asUser(ownerID),
			wantStatusCode:  http.StatusNotFound,
			wantDeleteCalls: 0,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeAlbumsRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewAlbumsHandler(repo)

			r := setupRouter(http.MethodDelete, "/api/album/:id", tt.identity, h.DeleteAlbum)

			req := httptest.NewRequest(http.MethodDelete, tt.url, nil)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if repo.deleteCalls != tt.wantDeleteCalls {
				t.Fatalf("got %d delete calls, want %d", repo.deleteCalls, tt.wantDeleteCalls)
			}
		})
	}
}
