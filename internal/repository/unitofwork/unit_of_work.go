package unitofwork

import (
	"context"

	"notescraft-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	UserProviderRepository() contract.UserProviderRepository
	NoteRepository() contract.NoteRepository
}
