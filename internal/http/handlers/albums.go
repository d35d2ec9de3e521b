package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/albumhub/internal/cache"
	"github.com/geocoder89/albumhub/internal/config"
	"github.com/geocoder89/albumhub/internal/domain/album"
	"github.com/geocoder89/albumhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AlbumsStore interface {
	Create(ctx context.Context, a album.Album) (album.Album, error)
	GetByID(ctx context.Context, id string) (album.Album, error)
	Update(ctx context.Context, id string, req album.UpdateAlbumRequest) (album.Album, error)
	Delete(ctx context.Context, id string) error
}

type AlbumsHandler struct {
	repo  AlbumsStore
	cache *cache.Cache
}

func NewAlbumsHandler(repo AlbumsStore) *AlbumsHandler {
	return &AlbumsHandler{repo: repo}
}

func NewAlbumsHandlerWithCache(repo AlbumsStore, c *cache.Cache) *AlbumsHandler {
	return &AlbumsHandler{repo: repo, cache: c}
}

func albumCacheKey(id string) string {
	return "album:" + id
}

// CreateAlbum sets the owner from the verified identity; a userID in the
// request body is ignored.
func (h *AlbumsHandler) CreateAlbum(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	var req album.CreateAlbumRequest

	if !BindJSON(ctx, &req) {
		return
	}

	a := album.NewFromCreateRequest(req, userID)

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	created, err := h.repo.Create(cctx, a)

	if err != nil {
		RespondInternal(ctx, "Could not create album")
		return
	}

	ctx.JSON(http.StatusOK, created)
}

func (h *AlbumsHandler) GetAlbumById(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	id := ctx.Param("id")

	if uuid.Validate(id) != nil {
		RespondNotFound(ctx, "Album not found")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	var a album.Album

	if h.cache == nil || !h.cache.Get(cctx, albumCacheKey(id), &a) {
		var err error
		a, err = h.repo.GetByID(cctx, id)

		if err != nil {
			if err == album.ErrNotFound {
				RespondNotFound(ctx, "Album not found")
				return
			}
			RespondInternal(ctx, "Could not fetch album")
			return
		}

		if h.cache != nil {
			h.cache.Set(cctx, albumCacheKey(id), a)
		}
	}

	// ownership gate: plain value comparison against the verified identity
	if a.UserID != userID {
		RespondUnAuthorized(ctx, "unauthorized", "invalid user")
		return
	}

	ctx.JSON(http.StatusOK, a)
}

// UpdateAlbum validates the body before touching storage so an invalid
// payload leaves the record unmodified.
func (h *AlbumsHandler) UpdateAlbum(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	id := ctx.Param("id")

	if uuid.Validate(id) != nil {
		RespondNotFound(ctx, "Album not found")
		return
	}

	var req album.UpdateAlbumRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	existing, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if err == album.ErrNotFound {
			RespondNotFound(ctx, "Album not found")
			return
		}
		RespondInternal(ctx, "Could not update album")
		return
	}

	if existing.UserID != userID {
		RespondUnAuthorized(ctx, "unauthorized", "invalid user")
		return
	}

	updated, err := h.repo.Update(cctx, id, req)

	if err != nil {
		if err == album.ErrNotFound {
			RespondNotFound(ctx, "Album not found")
			return
		}
		RespondInternal(ctx, "Could not update album")
		return
	}

	if h.cache != nil {
		h.cache.Delete(cctx, albumCacheKey(id))
	}

	ctx.JSON(http.StatusOK, updated)
}

func (h *AlbumsHandler) DeleteAlbum(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	id := ctx.Param("id")

	if uuid.Validate(id) != nil {
		RespondNotFound(ctx, "Album not found")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	existing, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if err == album.ErrNotFound {
			RespondNotFound(ctx, "Album not found")
			return
		}
		RespondInternal(ctx, "Could not delete album")
		return
	}

	if existing.UserID != userID {
		RespondUnAuthorized(ctx, "unauthorized", "invalid user")
		return
	}

	err = h.repo.Delete(cctx, id)

	if err != nil {
		if err == album.ErrNotFound {
			RespondNotFound(ctx, "Album not found")
			return
		}
		RespondInternal(ctx, "Could not delete album")
		return
	}

	if h.cache != nil {
		h.cache.Delete(cctx, albumCacheKey(id))
	}

	ctx.Status(http.StatusNoContent)
}
