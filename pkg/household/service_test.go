package household

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/hauskeep/hauskeep/pkg/migrations"
	"github.com/hauskeep/hauskeep/pkg/models"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestCreateAndListLocations(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewService(db)

	require.NoError(t, svc.CreateLocation(ctx, &models.Location{Name: "Kitchen"}))
	require.NoError(t, svc.CreateLocation(ctx, &models.Location{Name: "Garage"}))

	locations, err := svc.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 2)
	assert.Equal(t, "Kitchen", locations[0].Name)
	assert.Equal(t, "Garage", locations[1].Name)
	assert.False(t, locations[0].CreatedAt.IsZero())
}

func TestLocationNamesAreUniqueCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewService(db)

	require.NoError(t, svc.CreateLocation(ctx, &models.Location{Name: "Kitchen"}))
	assert.Error(t, svc.CreateLocation(ctx, &models.Location{Name: "kitchen"}))
}

func TestListProductsLoadsBarcodes(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewService(db)

	product := &models.Product{Name: "Flour"}
	require.NoError(t, svc.CreateProduct(ctx, product))

	barcode := &models.ProductBarcode{ProductID: product.ID, Barcode: "4006381333931"}
	_, err := db.NewInsert().Model(barcode).Exec(ctx)
	require.NoError(t, err)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Len(t, products[0].Barcodes, 1)
	assert.Equal(t, "4006381333931", products[0].Barcodes[0].Barcode)
}

func TestHomeProfileSingleton(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewService(db)

	profile, err := svc.HomeProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, profile)

	first := &models.HomeProfile{Name: "First Home", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	_, err = db.NewInsert().Model(first).Exec(ctx)
	require.NoError(t, err)
	second := &models.HomeProfile{Name: "Second Home", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	_, err = db.NewInsert().Model(second).Exec(ctx)
	require.NoError(t, err)

	utility := &models.HomeUtility{HomeProfileID: first.ID, Name: "Water"}
	_, err = db.NewInsert().Model(utility).Exec(ctx)
	require.NoError(t, err)

	// The row with the lowest id wins.
	profile, err = svc.HomeProfile(ctx)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "First Home", profile.Name)
	require.Len(t, profile.Utilities, 1)
	assert.Equal(t, "Water", profile.Utilities[0].Name)
}

func TestCounts(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewService(db)

	require.NoError(t, svc.CreateLocation(ctx, &models.Location{Name: "Kitchen"}))
	require.NoError(t, svc.CreateChore(ctx, &models.Chore{Name: "Vacuum", PeriodType: models.ChorePeriodWeekly}))
	require.NoError(t, svc.CreateChore(ctx, &models.Chore{Name: "Dust", PeriodType: models.ChorePeriodWeekly}))

	counts, err := svc.Counts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 16)

	byCategory := map[string]int{}
	for _, c := range counts {
		byCategory[c.Category] = c.Count
	}
	assert.Equal(t, 1, byCategory[CategoryLocations])
	assert.Equal(t, 2, byCategory[CategoryChores])
	assert.Equal(t, 0, byCategory[CategoryProducts])
}

func TestShoppingListDisplayName(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewService(db)

	product := &models.Product{Name: "Milk"}
	require.NoError(t, svc.CreateProduct(ctx, product))

	require.NoError(t, svc.CreateShoppingListItem(ctx, &models.ShoppingListItem{ProductID: &product.ID, Amount: 2}))
	require.NoError(t, svc.CreateShoppingListItem(ctx, &models.ShoppingListItem{Note: "Batteries", Amount: 1}))

	items, err := svc.ListShoppingListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Milk", items[0].DisplayName())
	assert.Equal(t, "Batteries", items[1].DisplayName())
}
