package postgres

import (
	"database/sql"

	"carshare-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.ClientRepository
	repository.CarRepository
	repository.DocumentRepository
	repository.ContractRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		ClientRepository:       NewClientRepository(db),
		CarRepository:          NewCarRepository(db),
		DocumentRepository:     NewDocumentRepository(db),
		ContractRepository:     NewContractRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
