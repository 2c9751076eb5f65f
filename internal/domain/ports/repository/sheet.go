package repository

import (
	"context"

	"studysheet-ai-service/internal/domain/model"
)

// SheetRepository is the port for persisted study sheets.
type SheetRepository interface {
	// Insert persists one sheet. Sheets are append-only here.
	Insert(ctx context.Context, tx Tx, s *model.Sheet) error
	// ListByOwner returns the owner's sheets, newest first.
	ListByOwner(ctx context.Context, tx Tx, ownerID string, offset, limit int) ([]*model.Sheet, error)
	// UpdateRating sets the rating on the owner's sheet.
	// Returns domain.ErrNotFound when the sheet is missing or owned by
	// someone else.
	UpdateRating(ctx context.Context, tx Tx, id, ownerID string, rating int) error
}
