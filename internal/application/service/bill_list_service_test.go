package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unquiedeveloper/sg-store2/internal/domain/entity"
	"github.com/unquiedeveloper/sg-store2/internal/infrastructure/viewstate"
	"github.com/unquiedeveloper/sg-store2/pkg/apperror"
)

type fakeBillRepo struct {
	bills     []entity.Bill
	listErr   error
	deleteErr error
	createErr error

	listCalls int
	deleted   []string
	created   []*entity.NewBill
}

func (f *fakeBillRepo) List(context.Context) ([]entity.Bill, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]entity.Bill, len(f.bills))
	copy(out, f.bills)
	return out, nil
}

func (f *fakeBillRepo) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	for i, b := range f.bills {
		if b.ID == id {
			f.bills = append(f.bills[:i], f.bills[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeBillRepo) Create(_ context.Context, bill *entity.NewBill) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, bill)
	f.bills = append(f.bills, entity.Bill{ID: fmt.Sprintf("new-%d", len(f.created)), CustomerName: bill.CustomerName})
	return nil
}

func makeBills(n int) []entity.Bill {
	bills := make([]entity.Bill, n)
	for i := range bills {
		bills[i] = entity.Bill{ID: fmt.Sprintf("b%d", i+1), CustomerName: fmt.Sprintf("Customer %d", i+1)}
	}
	return bills
}

func newBillListService(t *testing.T, repo *fakeBillRepo) *BillListService {
	t.Helper()
	store := viewstate.NewMemoryStore(time.Hour)
	t.Cleanup(func() { _ = store.Close() })
	return NewBillListService(repo, store, 20, zap.NewNop())
}

func TestBillListService_MountLoadsOnce(t *testing.T) {
	repo := &fakeBillRepo{bills: makeBills(45)}
	svc := newBillListService(t, repo)
	ctx := context.Background()

	view, err := svc.Mount(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, view.Loaded)
	assert.Len(t, view.Bills, 20)
	assert.Equal(t, 1, view.Pagination.CurrentPage)
	assert.Equal(t, 3, view.Pagination.TotalPages)
	assert.False(t, view.Pagination.HasPrev)
	assert.True(t, view.Pagination.HasNext)

	_, err = svc.Mount(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)

	_, err = svc.Mount(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}

func TestBillListService_Pagination(t *testing.T) {
	repo := &fakeBillRepo{bills: makeBills(45)}
	svc := newBillListService(t, repo)
	ctx := context.Background()
	_, err := svc.Mount(ctx, "s1")
	require.NoError(t, err)

	view, err := svc.Show(ctx, "s1", 3)
	require.NoError(t, err)
	require.Len(t, view.Bills, 5)
	assert.Equal(t, "b41", view.Bills[0].ID)
	assert.False(t, view.Pagination.HasNext)

	view, err = svc.Next(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, view.Pagination.CurrentPage)

	view, err = svc.Show(ctx, "s1", 99)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Pagination.CurrentPage)

	view, err = svc.Show(ctx, "s1", -4)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Pagination.CurrentPage)

	view, err = svc.Prev(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, view.Pagination.CurrentPage)
	assert.Equal(t, "b1", view.Bills[0].ID)

	view, err = svc.Next(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "b21", view.Bills[0].ID)
}

func TestBillListService_EmptyList(t *testing.T) {
	svc := newBillListService(t, &fakeBillRepo{})
	ctx := context.Background()

	view, err := svc.Mount(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, view.Bills)
	assert.Equal(t, 1, view.Pagination.CurrentPage)
	assert.False(t, view.Pagination.HasNext)
	assert.False(t, view.Pagination.HasPrev)

	view, err = svc.Next(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, view.Pagination.CurrentPage)
}

func TestBillListService_LoadFailureKeepsState(t *testing.T) {
	repo := &fakeBillRepo{bills: makeBills(3)}
	svc := newBillListService(t, repo)
	ctx := context.Background()
	_, err := svc.Mount(ctx, "s1")
	require.NoError(t, err)

	repo.bills = makeBills(10)
	repo.listErr = apperror.NewMalformedError("fetch bills", errors.New("bills is not an array"))

	err = svc.Load(ctx, "s1")
	require.Error(t, err)
	assert.Equal(t, apperror.KindMalformed, apperror.KindOf(err))

	view, err := svc.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, view.Bills, 3)
}

func TestBillListService_MountFailureStillRenders(t *testing.T) {
	repo := &fakeBillRepo{listErr: apperror.NewStatusError("fetch bills", 500)}
	svc := newBillListService(t, repo)

	view, err := svc.Mount(context.Background(), "s1")
	require.Error(t, err)
	require.NotNil(t, view)
	assert.False(t, view.Loaded)
	assert.Empty(t, view.Bills)
}

func TestBillListService_DeleteReloads(t *testing.T) {
	repo := &fakeBillRepo{bills: makeBills(21)}
	svc := newBillListService(t, repo)
	ctx := context.Background()
	_, err := svc.Mount(ctx, "s1")
	require.NoError(t, err)
	_, err = svc.Show(ctx, "s1", 2)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "s1", "b21"))
	assert.Equal(t, []string{"b21"}, repo.deleted)
	assert.Equal(t, 2, repo.listCalls)

	view, err := svc.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, view.Pagination.CurrentPage)
	assert.Equal(t, int64(20), view.Pagination.Total)
}

func TestBillListService_DeleteFailureKeepsList(t *testing.T) {
	repo := &fakeBillRepo{bills: makeBills(2)}
	svc := newBillListService(t, repo)
	ctx := context.Background()
	_, err := svc.Mount(ctx, "s1")
	require.NoError(t, err)

	repo.deleteErr = apperror.NewStatusError("delete bill", 400)
	err = svc.Delete(ctx, "s1", "b1")
	require.Error(t, err)
	assert.Equal(t, apperror.KindStatus, apperror.KindOf(err))
	assert.Equal(t, 1, repo.listCalls)

	view, err := svc.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, view.Bills, 2)
}

func TestBillListService_DeleteThenReloadFails(t *testing.T) {
	repo := &fakeBillRepo{bills: makeBills(2)}
	svc := newBillListService(t, repo)
	ctx := context.Background()
	_, err := svc.Mount(ctx, "s1")
	require.NoError(t, err)

	repo.listErr = apperror.NewTransportError("fetch bills", errors.New("connection refused"))
	err = svc.Delete(ctx, "s1", "b1")

	var reloadErr *ReloadError
	require.ErrorAs(t, err, &reloadErr)
	assert.Equal(t, apperror.KindTransport, apperror.KindOf(err))
	assert.Equal(t, []string{"b1"}, repo.deleted)
}

func TestBillListService_ViewAndClose(t *testing.T) {
	repo := &fakeBillRepo{bills: makeBills(3)}
	svc := newBillListService(t, repo)
	ctx := context.Background()
	_, err := svc.Mount(ctx, "s1")
	require.NoError(t, err)

	view, err := svc.View(ctx, "s1", "b2")
	require.NoError(t, err)
	assert.True(t, view.ModalOpen)
	require.NotNil(t, view.Selected)
	assert.Equal(t, "b2", view.Selected.ID)

	view, err = svc.Close(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, view.ModalOpen)
	require.NotNil(t, view.Selected)
	assert.Equal(t, "b2", view.Selected.ID)

	_, err = svc.View(ctx, "s1", "missing")
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestBillListService_Find(t *testing.T) {
	repo := &fakeBillRepo{bills: makeBills(3)}
	svc := newBillListService(t, repo)
	ctx := context.Background()

	bill, err := svc.Find(ctx, "s1", "b3")
	require.NoError(t, err)
	assert.Equal(t, "Customer 3", bill.CustomerName)
	assert.Equal(t, 1, repo.listCalls)

	_, err = svc.Find(ctx, "s1", "nope")
	require.Error(t, err)
	assert.Equal(t, 1, repo.listCalls)
}

func TestBillListService_SessionsAreIsolated(t *testing.T) {
	repo := &fakeBillRepo{bills: makeBills(45)}
	svc := newBillListService(t, repo)
	ctx := context.Background()
	_, _ = svc.Mount(ctx, "s1")
	_, _ = svc.Mount(ctx, "s2")

	_, err := svc.Show(ctx, "s1", 2)
	require.NoError(t, err)
	_, err = svc.View(ctx, "s1", "b1")
	require.NoError(t, err)

	view, err := svc.Current(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, 1, view.Pagination.CurrentPage)
	assert.False(t, view.ModalOpen)
}

func TestBillListService_Create(t *testing.T) {
	repo := &fakeBillRepo{}
	svc := newBillListService(t, repo)
	ctx := context.Background()

	bill := &entity.NewBill{
		CustomerName: "A",
		Products: []entity.NewProduct{
			{Name: "X", Quantity: 2, Price: decimal.NewFromInt(5)},
			{Name: "Y", Quantity: 1, Price: decimal.RequireFromString("4.5")},
		},
	}
	require.NoError(t, svc.Create(ctx, "s1", bill))
	require.Len(t, repo.created, 1)
	assert.Equal(t, "14.5", repo.created[0].TotalAmount.String())

	view, err := svc.Current(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, view.Bills, 1)
	assert.Equal(t, "A", view.Bills[0].CustomerName)
}

func TestBillListService_CreateValidation(t *testing.T) {
	repo := &fakeBillRepo{}
	svc := newBillListService(t, repo)

	err := svc.Create(context.Background(), "s1", &entity.NewBill{
		Products: []entity.NewProduct{{Name: "", Quantity: 0, Price: decimal.NewFromInt(-1)}},
	})
	require.Error(t, err)

	appErr := apperror.GetAppError(err)
	assert.Equal(t, 422, appErr.Code)
	var fields []string
	for _, fe := range appErr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.Equal(t, []string{"customerName", "products[0].productname", "products[0].quantity", "products[0].price"}, fields)
	assert.Empty(t, repo.created)
	assert.Zero(t, repo.listCalls)
}

func TestValidateNewBill_NoProducts(t *testing.T) {
	errs := ValidateNewBill(&entity.NewBill{CustomerName: "A"})
	require.Len(t, errs, 1)
	assert.Equal(t, "products", errs[0].Field)
}
