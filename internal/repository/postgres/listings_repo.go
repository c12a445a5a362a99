package postgres

import (
	"context"

	"github.com/baharkarakas/case-market/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type listingsRepo struct{ pool *pgxpool.Pool }

func (r *listingsRepo) ListOpen(ctx context.Context, limit, offset int) ([]models.Listing, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+listingColumns+`
		   FROM market_listings
		  WHERE NOT is_sold
		  ORDER BY created_at DESC
		  LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, mapErr(err, "listings")
	}
	defer rows.Close()

	var out []models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, mapErr(err, "listings")
		}
		out = append(out, l)
	}
	return out, mapErr(rows.Err(), "listings")
}

func (r *listingsRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM market_listings WHERE id=$1)`, id).Scan(&exists)
	return exists, mapErr(err, "listing "+id)
}
