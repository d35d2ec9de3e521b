package album

import (
	"errors"
	"time"
)

type Album struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
	// UserID is always taken from the authenticated identity, never
	// from the request body.
	UserID string `json:"userID"`
}

var ErrNotFound = errors.New("album not found")

type CreateAlbumRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=120"`
	Description string `json:"description" binding:"required,min=1,max=1000"`
}

// a full update payload, same required fields as create.
type UpdateAlbumRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=120"`
	Description string `json:"description" binding:"required,min=1,max=1000"`
}
