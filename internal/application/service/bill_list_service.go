package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/unquiedeveloper/sg-store2/internal/domain/entity"
	"github.com/unquiedeveloper/sg-store2/internal/domain/repository"
	"github.com/unquiedeveloper/sg-store2/pkg/apperror"
	"github.com/unquiedeveloper/sg-store2/pkg/pagination"
)

// BillListService owns the bill list view of every session: the cached
// list, the current page and the detail overlay.
type BillListService struct {
	bills    repository.BillRepository
	states   repository.ViewStateRepository
	pageSize int
	logger   *zap.Logger
}

// NewBillListService creates a new bill list service
func NewBillListService(
	bills repository.BillRepository,
	states repository.ViewStateRepository,
	pageSize int,
	logger *zap.Logger,
) *BillListService {
	if pageSize < 1 {
		pageSize = pagination.DefaultPerPage
	}
	return &BillListService{
		bills:    bills,
		states:   states,
		pageSize: pageSize,
		logger:   logger,
	}
}

// BillListView is what the list page renders for one session.
type BillListView struct {
	Bills      []entity.Bill          `json:"bills"`
	Pagination *pagination.Pagination `json:"pagination"`
	Selected   *entity.Bill           `json:"selected,omitempty"`
	ModalOpen  bool                   `json:"modal_open"`
	Loaded     bool                   `json:"loaded"`
}

// ReloadError reports that a mutation succeeded but the list could not be
// fetched again afterwards.
type ReloadError struct {
	Err error
}

func (e *ReloadError) Error() string { return "reload after change: " + e.Err.Error() }
func (e *ReloadError) Unwrap() error { return e.Err }

func (s *BillListService) state(ctx context.Context, sessionID string) (*entity.BillListState, error) {
	st, err := s.states.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load view state: %w", err)
	}
	if st == nil {
		st = &entity.BillListState{Page: 1}
	}
	return st, nil
}

func (s *BillListService) save(ctx context.Context, sessionID string, st *entity.BillListState) error {
	if err := s.states.Save(ctx, sessionID, st); err != nil {
		return fmt.Errorf("save view state: %w", err)
	}
	return nil
}

func (s *BillListService) view(st *entity.BillListState) *BillListView {
	page := pagination.PageOf(st.Bills, st.Page, s.pageSize)
	return &BillListView{
		Bills:      page.Items,
		Pagination: page.Pagination,
		Selected:   st.Selected,
		ModalOpen:  st.ModalOpen,
		Loaded:     st.Loaded,
	}
}

// Load fetches every bill and replaces the cached list. On failure the
// previous state is left untouched.
func (s *BillListService) Load(ctx context.Context, sessionID string) error {
	bills, err := s.bills.List(ctx)
	if err != nil {
		s.logger.Warn("failed to fetch bills",
			zap.String("session_id", sessionID),
			zap.String("kind", string(apperror.KindOf(err))),
			zap.Error(err),
		)
		return err
	}

	st, err := s.state(ctx, sessionID)
	if err != nil {
		return err
	}
	st.Bills = bills
	st.Loaded = true

	s.logger.Debug("bills loaded", zap.String("session_id", sessionID), zap.Int("count", len(bills)))
	return s.save(ctx, sessionID, st)
}

// Mount returns the session's list view, fetching the bills the first time
// the list is shown. A failed fetch still returns the current view.
func (s *BillListService) Mount(ctx context.Context, sessionID string) (*BillListView, error) {
	st, err := s.state(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var loadErr error
	if !st.Loaded {
		if loadErr = s.Load(ctx, sessionID); loadErr == nil {
			if st, err = s.state(ctx, sessionID); err != nil {
				return nil, err
			}
		}
	}
	return s.view(st), loadErr
}

// Current returns the session's list view without contacting the backend.
func (s *BillListService) Current(ctx context.Context, sessionID string) (*BillListView, error) {
	st, err := s.state(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(st), nil
}

// Show moves to page, clamped to the available pages.
func (s *BillListService) Show(ctx context.Context, sessionID string, page int) (*BillListView, error) {
	st, err := s.state(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	st.Page = pagination.ClampPage(page, len(st.Bills), s.pageSize)
	if err := s.save(ctx, sessionID, st); err != nil {
		return nil, err
	}
	return s.view(st), nil
}

// Next moves one page forward; it stays put on the last page.
func (s *BillListService) Next(ctx context.Context, sessionID string) (*BillListView, error) {
	return s.step(ctx, sessionID, 1)
}

// Prev moves one page back; it stays put on the first page.
func (s *BillListService) Prev(ctx context.Context, sessionID string) (*BillListView, error) {
	return s.step(ctx, sessionID, -1)
}

func (s *BillListService) step(ctx context.Context, sessionID string, delta int) (*BillListView, error) {
	st, err := s.state(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	current := pagination.ClampPage(st.Page, len(st.Bills), s.pageSize)
	return s.Show(ctx, sessionID, current+delta)
}

// Delete removes a bill through the backend and reloads the whole list.
// A failed delete leaves the list unchanged; a failed reload after a
// successful delete is returned as *ReloadError.
func (s *BillListService) Delete(ctx context.Context, sessionID, billID string) error {
	if err := s.bills.Delete(ctx, billID); err != nil {
		s.logger.Warn("failed to delete bill",
			zap.String("session_id", sessionID),
			zap.String("bill_id", billID),
			zap.String("kind", string(apperror.KindOf(err))),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("bill deleted", zap.String("session_id", sessionID), zap.String("bill_id", billID))
	if err := s.Load(ctx, sessionID); err != nil {
		return &ReloadError{Err: err}
	}
	return nil
}

// View selects a cached bill and opens the detail overlay.
func (s *BillListService) View(ctx context.Context, sessionID, billID string) (*BillListView, error) {
	st, err := s.state(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	bill := st.FindBill(billID)
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	st.Selected = bill
	st.ModalOpen = true

	if err := s.save(ctx, sessionID, st); err != nil {
		return nil, err
	}
	return s.view(st), nil
}

// Close hides the overlay. The last selection is kept.
func (s *BillListService) Close(ctx context.Context, sessionID string) (*BillListView, error) {
	st, err := s.state(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	st.ModalOpen = false

	if err := s.save(ctx, sessionID, st); err != nil {
		return nil, err
	}
	return s.view(st), nil
}

// Find returns a bill from the session's cached list, fetching the list
// first when the session has none yet.
func (s *BillListService) Find(ctx context.Context, sessionID, billID string) (*entity.Bill, error) {
	st, err := s.state(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !st.Loaded {
		if err := s.Load(ctx, sessionID); err != nil {
			return nil, err
		}
		if st, err = s.state(ctx, sessionID); err != nil {
			return nil, err
		}
	}

	bill := st.FindBill(billID)
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}

// Create validates bill, sends it to the backend and reloads the list.
// A zero total is replaced by the sum of the line totals.
func (s *BillListService) Create(ctx context.Context, sessionID string, bill *entity.NewBill) error {
	if fieldErrors := ValidateNewBill(bill); len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	if bill.TotalAmount.IsZero() {
		bill.TotalAmount = bill.ComputeTotal()
	}

	if err := s.bills.Create(ctx, bill); err != nil {
		s.logger.Warn("failed to create bill",
			zap.String("session_id", sessionID),
			zap.String("kind", string(apperror.KindOf(err))),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("bill created", zap.String("session_id", sessionID), zap.String("customer", bill.CustomerName))
	if err := s.Load(ctx, sessionID); err != nil {
		return &ReloadError{Err: err}
	}
	return nil
}

// ValidateNewBill checks the create form input.
func ValidateNewBill(bill *entity.NewBill) []apperror.FieldError {
	var errs []apperror.FieldError
	if strings.TrimSpace(bill.CustomerName) == "" {
		errs = append(errs, apperror.FieldError{Field: "customerName", Message: "customer name is required"})
	}
	if len(bill.Products) == 0 {
		errs = append(errs, apperror.FieldError{Field: "products", Message: "at least one product is required"})
	}
	for i, p := range bill.Products {
		prefix := fmt.Sprintf("products[%d].", i)
		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, apperror.FieldError{Field: prefix + "productname", Message: "product name is required"})
		}
		if p.Quantity < 1 {
			errs = append(errs, apperror.FieldError{Field: prefix + "quantity", Message: "quantity must be at least 1"})
		}
		if p.Price.IsNegative() {
			errs = append(errs, apperror.FieldError{Field: prefix + "price", Message: "price must not be negative"})
		}
	}
	if bill.TotalAmount.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "totalAmount", Message: "total must not be negative"})
	}
	return errs
}
