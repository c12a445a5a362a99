package postgres

import (
	"context"

	"github.com/baharkarakas/case-market/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type transactionsRepo struct{ pool *pgxpool.Pool }

func (r *transactionsRepo) Create(ctx context.Context, tx models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO transactions (id, user_id, amount, transaction_type, description)
		 VALUES ($1,$2,$3,$4,$5)`,
		tx.ID, tx.UserID, tx.Amount, string(tx.Type), tx.Description,
	)
	return mapErr(err, "transaction record")
}

func (r *transactionsRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, amount, transaction_type, description, created_at
		   FROM transactions
		  WHERE user_id=$1
		  ORDER BY created_at DESC
		  LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, mapErr(err, "transactions")
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var (
			tx  models.Transaction
			typ string
		)
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Amount, &typ, &tx.Description, &tx.CreatedAt); err != nil {
			return nil, mapErr(err, "transactions")
		}
		tx.Type = models.TransactionType(typ)
		out = append(out, tx)
	}
	return out, mapErr(rows.Err(), "transactions")
}
