package repository

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-admin/internal/connections/database"
	"restaurant-admin/internal/domain"
)

// openTestDB connects to TEST_DATABASE_URL (postgres://...) and applies the
// schema. Tests are skipped when it is unset.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	migrateURL := "pgx5://" + strings.TrimPrefix(strings.TrimPrefix(url, "postgres://"), "postgresql://")
	_, err := database.Migrate(migrateURL)
	require.NoError(t, err)

	db, err := sql.Open("pgx", url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type seed struct {
	table    domain.Table
	soup     domain.Dish
	category uuid.UUID
}

func seedCatalog(t *testing.T, db *sql.DB) seed {
	t.Helper()
	ctx := context.Background()
	cat, err := domain.NewCategory("Starters "+uuid.NewString()[:8], "")
	require.NoError(t, err)
	soup, err := domain.NewDish("Soup", cat.ID, "water", 8)
	require.NoError(t, err)
	table, err := domain.NewTable("it-"+uuid.NewString()[:8], 4)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO categories (id, name) VALUES ($1, $2)`, cat.ID, cat.Name)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO dishes (id, name, category_id, ingredients, price) VALUES ($1, $2, $3, $4, $5)`,
		soup.ID, soup.Name, cat.ID, soup.Ingredients, soup.Price)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO dining_tables (id, number, capacity) VALUES ($1, $2, $3)`,
		table.ID, table.Number, table.Capacity)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = db.Exec(`DELETE FROM orders WHERE table_id = $1`, table.ID)
		_, _ = db.Exec(`DELETE FROM dining_tables WHERE id = $1`, table.ID)
		_, _ = db.Exec(`DELETE FROM dishes WHERE id = $1`, soup.ID)
		_, _ = db.Exec(`DELETE FROM categories WHERE id = $1`, cat.ID)
	})
	return seed{table: table, soup: soup, category: cat.ID}
}

func newOrder(tableID uuid.UUID) domain.Order {
	return domain.Order{ID: uuid.New(), Table: domain.Table{ID: tableID}, Status: domain.StatusActive, CreatedAt: time.Now().UTC()}
}

func TestConcurrentCreatesOneWinner(t *testing.T) {
	db := openTestDB(t)
	s := seedCatalog(t, db)
	repo := NewOrderRepository(db)
	items := []domain.ItemInput{{DishID: s.soup.ID, Quantity: 1}}

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Create(context.Background(), newOrder(s.table.ID), items)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case domain.IsConflict(err):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)
}

func TestRepositoryLifecycle(t *testing.T) {
	db := openTestDB(t)
	s := seedCatalog(t, db)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	o := newOrder(s.table.ID)
	require.NoError(t, repo.Create(ctx, o, []domain.ItemInput{{DishID: s.soup.ID, Quantity: 2}}))

	got, err := repo.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 16.0, got.Total)
	assert.Equal(t, s.table.Number, got.Table.Number)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Soup", got.Items[0].Dish.Name)

	latest, err := repo.LatestOpenForTable(ctx, s.table.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, latest.ID)

	changed, err := repo.Transition(ctx, o.ID, domain.StatusServed, time.Now())
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = repo.Transition(ctx, o.ID, domain.StatusServed, time.Now())
	require.NoError(t, err)
	assert.False(t, changed)

	list, err := repo.List(ctx, domain.OrderFilter{Statuses: domain.OpenStatuses, TableID: &s.table.ID, DishID: &s.soup.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.StatusServed, list[0].Status)

	otherCategory := uuid.New()
	hourAgo := o.CreatedAt.Add(-time.Hour)
	inHour := o.CreatedAt.Add(time.Hour)
	filters := []struct {
		name   string
		filter domain.OrderFilter
		want   int
	}{
		{"category", domain.OrderFilter{TableID: &s.table.ID, CategoryID: &s.category}, 1},
		{"other category", domain.OrderFilter{TableID: &s.table.ID, CategoryID: &otherCategory}, 0},
		{"range around creation", domain.OrderFilter{TableID: &s.table.ID, From: &hourAgo, To: &inHour}, 1},
		{"range after creation", domain.OrderFilter{TableID: &s.table.ID, From: &inHour}, 0},
		{"range before creation", domain.OrderFilter{TableID: &s.table.ID, To: &hourAgo}, 0},
		{"category and range", domain.OrderFilter{TableID: &s.table.ID, CategoryID: &s.category, From: &hourAgo, To: &inHour}, 1},
	}
	for _, tt := range filters {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}

	_, err = repo.Transition(ctx, o.ID, domain.StatusPaid, time.Now())
	require.NoError(t, err)
	changed, err = repo.Transition(ctx, o.ID, domain.StatusPaid, time.Now())
	require.NoError(t, err)
	assert.False(t, changed, "paying twice changes nothing")
	paidStatus := domain.StatusPaid
	changed, err = repo.Update(ctx, o.ID, domain.OrderPatch{Status: &paidStatus}, time.Now())
	require.NoError(t, err)
	assert.False(t, changed)
	_, err = repo.Update(ctx, o.ID, domain.OrderPatch{Items: []domain.ItemInput{{DishID: s.soup.ID, Quantity: 1}}}, time.Now())
	assert.True(t, domain.IsConflict(err))
	paid, err := repo.Get(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, paid.PaidAt)

	_, err = repo.Transition(ctx, o.ID, domain.StatusServed, time.Now())
	assert.True(t, domain.IsConflict(err))
	_, err = repo.Delete(ctx, o.ID, time.Now())
	assert.True(t, domain.IsConflict(err))

	_, err = repo.LatestOpenForTable(ctx, s.table.ID)
	assert.True(t, domain.IsNotFound(err))

	timeline, err := repo.Timeline(ctx, o.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, timeline, 3)
	assert.Equal(t, "paid", timeline[2].Status)
}

func TestRepositoryCancelAndRefs(t *testing.T) {
	db := openTestDB(t)
	s := seedCatalog(t, db)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	err := repo.Create(ctx, newOrder(s.table.ID), []domain.ItemInput{{DishID: uuid.New(), Quantity: 1}})
	var verr domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "items[0].dish_id", verr.Field)

	err = repo.Create(ctx, newOrder(uuid.New()), []domain.ItemInput{{DishID: s.soup.ID, Quantity: 1}})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "table_id", verr.Field)

	o := newOrder(s.table.ID)
	require.NoError(t, repo.Create(ctx, o, []domain.ItemInput{{DishID: s.soup.ID, Quantity: 1}}))
	snap, err := repo.Delete(ctx, o.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 8.0, snap.Total)

	_, err = repo.Get(ctx, o.ID)
	assert.True(t, domain.IsNotFound(err))

	timeline, err := repo.Timeline(ctx, o.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, timeline, 2)
	assert.Equal(t, "cancelled", timeline[1].Status)
}
