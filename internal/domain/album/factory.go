package album

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(req CreateAlbumRequest, ownerID string) Album {
	return Album{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Created:     time.Now().UTC(),
		UserID:      ownerID,
	}
}
