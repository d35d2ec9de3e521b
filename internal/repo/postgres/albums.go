package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/albumhub/internal/domain/album"
	"github.com/geocoder89/albumhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AlbumsRepo struct {
	pool    *pgxpool.Pool
	metrics *observability.Prom
}

// constructor function

func NewAlbumsRepo(pool *pgxpool.Pool) *AlbumsRepo {
	return &AlbumsRepo{pool: pool}
}

func NewAlbumsRepoWithMetrics(pool *pgxpool.Pool, metrics *observability.Prom) *AlbumsRepo {
	return &AlbumsRepo{pool: pool, metrics: metrics}
}

func (r *AlbumsRepo) observe(op string, start time.Time, err error) {
	if r.metrics != nil {
		r.metrics.ObserveDB(op, start, err)
	}
}

func (r *AlbumsRepo) Create(ctx context.Context, a album.Album) (album.Album, error) {
	start := time.Now()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO albums (id, name, description, created, user_id) VALUES ($1,$2,$3,$4,$5)`,
		a.ID, a.Name, a.Description, a.Created, a.UserID)

	r.observe("albums.create", start, err)

	if err != nil {
		return album.Album{}, err
	}

	return a, nil
}

func (r *AlbumsRepo) GetByID(ctx context.Context, id string) (album.Album, error) {
	var a album.Album

	start := time.Now()

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, created, user_id FROM albums WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Name, &a.Description, &a.Created, &a.UserID)

	r.observe("albums.get_by_id", start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return album.Album{}, album.ErrNotFound
		}

		return album.Album{}, err
	}

	return a, nil
}

func (r *AlbumsRepo) Update(ctx context.Context, id string, req album.UpdateAlbumRequest) (album.Album, error) {
	var a album.Album

	start := time.Now()

	err := r.pool.QueryRow(
		ctx,
		`UPDATE albums
			SET name = $2,
					description = $3
		WHERE id = $1
		RETURNING id, name, description, created, user_id`,
		id,
		req.Name,
		req.Description,
	).Scan(
		&a.ID,
		&a.Name,
		&a.Description,
		&a.Created,
		&a.UserID,
	)

	r.observe("albums.update", start, err)

	if err != nil {
		// if there are no rows matching the id
		if errors.Is(err, pgx.ErrNoRows) {
			return album.Album{}, album.ErrNotFound
		}

		return album.Album{}, err
	}

	return a, nil
}

func (r *AlbumsRepo) Delete(ctx context.Context, id string) error {
	start := time.Now()

	tag, err := r.pool.Exec(ctx, `DELETE FROM albums WHERE id = $1`, id)

	r.observe("albums.delete", start, err)

	if err != nil {
		return err
	}

	// if no rows were deleted as a result return a not found error
	if tag.RowsAffected() == 0 {
		return album.ErrNotFound
	}

	return nil
}
