package postgres

import (
	repo "github.com/baharkarakas/case-market/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	Ledger       repo.LedgerStore
	Transactions repo.TransactionLog
	Users        repo.Users
	Cases        repo.Cases
	Inventory    repo.Inventory
	Listings     repo.Listings
	Messages     repo.Messages
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Ledger:       &ledgerStore{pool},
		Transactions: &transactionsRepo{pool},
		Users:        &usersRepo{pool},
		Cases:        &casesRepo{pool},
		Inventory:    &inventoryRepo{pool},
		Listings:     &listingsRepo{pool},
		Messages:     &messagesRepo{pool},
	}
}
