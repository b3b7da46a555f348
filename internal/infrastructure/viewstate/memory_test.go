package viewstate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unquiedeveloper/sg-store2/internal/domain/entity"
)

func TestMemoryStore_SaveGetDelete(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()
	ctx := context.Background()

	got, err := s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, got)

	state := &entity.BillListState{Bills: []entity.Bill{{ID: "b1"}}, Loaded: true, Page: 2}
	require.NoError(t, s.Save(ctx, "sid", state))

	got, err = s.Get(ctx, "sid")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Page)
	assert.True(t, got.Loaded)
	assert.Equal(t, "b1", got.Bills[0].ID)

	require.NoError(t, s.Delete(ctx, "sid"))
	got, err = s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_CopiesState(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()
	ctx := context.Background()

	state := &entity.BillListState{Page: 1}
	require.NoError(t, s.Save(ctx, "sid", state))
	state.Page = 9

	got, err := s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Page)
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	defer s.Close()
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, "a", &entity.BillListState{}))
	require.NoError(t, s.Save(ctx, "b", &entity.BillListState{}))

	now = now.Add(2 * time.Minute)
	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got)

	s.evictExpired()
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_ConcurrentSessions(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			_ = s.Save(ctx, "shared", &entity.BillListState{Page: page})
			_, _ = s.Get(ctx, "shared")
		}(i)
	}
	wg.Wait()

	got, err := s.Get(ctx, "shared")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.GreaterOrEqual(t, got.Page, 0)
	assert.Less(t, got.Page, 50)
}
