package repository

import (
	"context"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/psds-microservice/helpdesk/internal/database/dbtest"
	"github.com/psds-microservice/helpdesk/internal/errs"
	"github.com/psds-microservice/helpdesk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock returns base, base+1s, base+2s, ... on successive calls.
func stepClock(base time.Time) func() time.Time {
	var mu sync.Mutex
	n := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := base.Add(time.Duration(n) * time.Second)
		n++
		return t
	}
}

func newRepo(t *testing.T) *GormTicketRepository {
	t.Helper()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return NewGormTicketRepository(dbtest.Open(t)).WithClock(stepClock(base))
}

func TestCreateAndFind(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	id, err := r.Create(ctx, "Ada", "Bug", "steps")
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := r.Find(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.FirstName)
	assert.Equal(t, "Bug", got.Title)
	assert.Equal(t, "steps", got.Description)
	assert.Equal(t, model.TicketStatusNew, got.Status)
	assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))
}

func TestFind_Missing(t *testing.T) {
	_, err := newRepo(t).Find(context.Background(), 999)
	assert.ErrorIs(t, err, errs.ErrTicketNotFound)
}

func TestIDAboveInt64Range(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	id, err := r.Create(ctx, "Ada", "Bug", "steps")
	require.NoError(t, err)

	const huge = uint64(math.MaxInt64) + 1
	_, err = r.Find(ctx, huge)
	assert.ErrorIs(t, err, errs.ErrTicketNotFound)
	assert.NoError(t, r.UpdateStatus(ctx, huge, model.TicketStatusDone))
	assert.NoError(t, r.Delete(ctx, huge))

	got, err := r.Find(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.TicketStatusNew, got.Status)
}

func TestCreate_LongFieldsStoredVerbatim(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	name := strings.Repeat("n", 300)
	title := strings.Repeat("т", 1000)
	id, err := r.Create(ctx, name, title, "steps")
	require.NoError(t, err)

	got, err := r.Find(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, name, got.FirstName)
	assert.Equal(t, title, got.Title)
}

func TestAll_NewestFirst(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	var ids []uint64
	for _, title := range []string{"t1", "t2", "t3"} {
		id, err := r.Create(ctx, "Ada", title, "d")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	items, err := r.All(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []uint64{ids[2], ids[1], ids[0]}, []uint64{items[0].ID, items[1].ID, items[2].ID})
}

func TestAll_TiesBrokenByInsertionOrder(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := NewGormTicketRepository(dbtest.Open(t)).WithClock(func() time.Time { return fixed })

	a, err := r.Create(ctx, "Ada", "a", "d")
	require.NoError(t, err)
	b, err := r.Create(ctx, "Ada", "b", "d")
	require.NoError(t, err)

	items, err := r.All(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, b, items[0].ID)
	assert.Equal(t, a, items[1].ID)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	id, err := r.Create(ctx, "Ada", "Bug", "steps")
	require.NoError(t, err)

	require.NoError(t, r.UpdateStatus(ctx, id, model.TicketStatusInProgress))

	got, err := r.Find(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.TicketStatusInProgress, got.Status)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	// отсутствующий id — не ошибка
	assert.NoError(t, r.UpdateStatus(ctx, id+100, model.TicketStatusDone))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	id, err := r.Create(ctx, "Ada", "Bug", "steps")
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, id))
	_, err = r.Find(ctx, id)
	assert.ErrorIs(t, err, errs.ErrTicketNotFound)

	assert.NoError(t, r.Delete(ctx, id))
}

func TestDeleteAll_DoesNotReuseIDs(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	first, err := r.Create(ctx, "Ada", "a", "d")
	require.NoError(t, err)
	_, err = r.Create(ctx, "Ada", "b", "d")
	require.NoError(t, err)

	require.NoError(t, r.DeleteAll(ctx))
	items, err := r.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	next, err := r.Create(ctx, "Ada", "c", "d")
	require.NoError(t, err)
	assert.Greater(t, next, first+1)
}

func TestCountByStatus(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	for i := 0; i < 3; i++ {
		_, err := r.Create(ctx, "Ada", "t", "d")
		require.NoError(t, err)
	}
	items, err := r.All(ctx)
	require.NoError(t, err)
	require.NoError(t, r.UpdateStatus(ctx, items[0].ID, model.TicketStatusInProgress))
	require.NoError(t, r.UpdateStatus(ctx, items[1].ID, model.TicketStatusDone))

	c, err := r.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCounts{New: 1, InProgress: 1, Done: 1, Total: 3}, c)
}

func TestPersistenceErrorWrapped(t *testing.T) {
	db := dbtest.Open(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = NewGormTicketRepository(db).All(context.Background())
	assert.ErrorIs(t, err, errs.ErrPersistence)
}
