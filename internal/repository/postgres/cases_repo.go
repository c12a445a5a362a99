package postgres

import (
	"context"

	"github.com/baharkarakas/case-market/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type casesRepo struct{ pool *pgxpool.Pool }

func (r *casesRepo) Create(ctx context.Context, c models.Case) (models.Case, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	var raw any
	if len(c.RewardTable) > 0 {
		raw = string(c.RewardTable)
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO cases (id, name, price, is_active, reward_table)
		 VALUES ($1,$2,$3,$4,$5::jsonb)
		 RETURNING updated_at`,
		c.ID, c.Name, c.Price, c.IsActive, raw,
	).Scan(&c.UpdatedAt)
	if err != nil {
		return models.Case{}, mapErr(err, "case "+c.Name)
	}
	return c, nil
}

func (r *casesRepo) ListActive(ctx context.Context) ([]models.Case, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, price, is_active, reward_table, updated_at
		   FROM cases
		  WHERE is_active
		  ORDER BY price, name`,
	)
	if err != nil {
		return nil, mapErr(err, "cases")
	}
	defer rows.Close()

	var out []models.Case
	for rows.Next() {
		var (
			c   models.Case
			raw []byte
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Price, &c.IsActive, &raw, &c.UpdatedAt); err != nil {
			return nil, mapErr(err, "cases")
		}
		c.RewardTable = raw
		out = append(out, c)
	}
	return out, mapErr(rows.Err(), "cases")
}
