package repository

import (
	"context"

	"github.com/unquiedeveloper/sg-store2/internal/domain/entity"
)

// BillRepository defines the operations the billing backend offers.
// Implementations never cache; every call reaches the backend.
type BillRepository interface {
	List(ctx context.Context) ([]entity.Bill, error)
	Delete(ctx context.Context, id string) error
	Create(ctx context.Context, bill *entity.NewBill) error
}

// ViewStateRepository stores the bill list view state of each session
type ViewStateRepository interface {
	// Get returns the state for a session, or nil when none was saved.
	Get(ctx context.Context, sessionID string) (*entity.BillListState, error)
	Save(ctx context.Context, sessionID string, state *entity.BillListState) error
	Delete(ctx context.Context, sessionID string) error
}
