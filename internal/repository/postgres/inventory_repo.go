package postgres

import (
	"context"

	"github.com/baharkarakas/case-market/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type inventoryRepo struct{ pool *pgxpool.Pool }

func (r *inventoryRepo) ListByUser(ctx context.Context, userID string) ([]models.InventoryItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, item_name, rarity, acquired_at
		   FROM inventory
		  WHERE user_id=$1
		  ORDER BY acquired_at DESC`,
		userID,
	)
	if err != nil {
		return nil, mapErr(err, "inventory")
	}
	defer rows.Close()

	var out []models.InventoryItem
	for rows.Next() {
		var (
			it     models.InventoryItem
			rarity string
		)
		if err := rows.Scan(&it.ID, &it.UserID, &it.ItemName, &rarity, &it.AcquiredAt); err != nil {
			return nil, mapErr(err, "inventory")
		}
		it.Rarity = models.Rarity(rarity)
		out = append(out, it)
	}
	return out, mapErr(rows.Err(), "inventory")
}
