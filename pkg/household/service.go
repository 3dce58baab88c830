package household

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/hauskeep/hauskeep/pkg/models"
)

// Category names. These are the identifiers persisted in the transfer ledger,
// so renaming one invalidates resumability of old sessions.
const (
	CategoryLocations      = "locations"
	CategoryQuantityUnits  = "quantity_units"
	CategoryProductGroups  = "product_groups"
	CategoryContacts       = "contacts"
	CategoryProducts       = "products"
	CategoryEquipment      = "equipment"
	CategoryVehicles       = "vehicles"
	CategoryRecipes        = "recipes"
	CategoryChores         = "chores"
	CategoryChoreLogs      = "chore_logs"
	CategoryTodoItems      = "todo_items"
	CategoryShoppingList   = "shopping_list"
	CategoryStorageBins    = "storage_bins"
	CategoryHomeProfile    = "home_profile"
	CategoryCalendarEvents = "calendar_events"
	CategoryStock          = "stock"
)

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Service is the read side the transfer engine consumes plus the write side
// the CRUD handlers use. The transfer engine never writes local data.
type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) ListLocations(ctx context.Context) ([]*models.Location, error) {
	locations := []*models.Location{}
	err := svc.db.NewSelect().Model(&locations).Order("loc.id ASC").Scan(ctx)
	return locations, errors.WithStack(err)
}

func (svc *Service) ListQuantityUnits(ctx context.Context) ([]*models.QuantityUnit, error) {
	units := []*models.QuantityUnit{}
	err := svc.db.NewSelect().Model(&units).Order("qu.id ASC").Scan(ctx)
	return units, errors.WithStack(err)
}

func (svc *Service) ListProductGroups(ctx context.Context) ([]*models.ProductGroup, error) {
	groups := []*models.ProductGroup{}
	err := svc.db.NewSelect().Model(&groups).Order("pg.id ASC").Scan(ctx)
	return groups, errors.WithStack(err)
}

func (svc *Service) ListContacts(ctx context.Context) ([]*models.Contact, error) {
	contacts := []*models.Contact{}
	err := svc.db.NewSelect().
		Model(&contacts).
		Relation("Addresses").
		Relation("Phones").
		Relation("Emails").
		Order("c.id ASC").
		Scan(ctx)
	return contacts, errors.WithStack(err)
}

func (svc *Service) ListProducts(ctx context.Context) ([]*models.Product, error) {
	products := []*models.Product{}
	err := svc.db.NewSelect().
		Model(&products).
		Relation("Barcodes").
		Order("p.id ASC").
		Scan(ctx)
	return products, errors.WithStack(err)
}

func (svc *Service) ListEquipment(ctx context.Context) ([]*models.Equipment, error) {
	equipment := []*models.Equipment{}
	err := svc.db.NewSelect().Model(&equipment).Order("e.id ASC").Scan(ctx)
	return equipment, errors.WithStack(err)
}

func (svc *Service) ListVehicles(ctx context.Context) ([]*models.Vehicle, error) {
	vehicles := []*models.Vehicle{}
	err := svc.db.NewSelect().
		Model(&vehicles).
		Relation("Services").
		Order("v.id ASC").
		Scan(ctx)
	return vehicles, errors.WithStack(err)
}

func (svc *Service) ListRecipes(ctx context.Context) ([]*models.Recipe, error) {
	recipes := []*models.Recipe{}
	err := svc.db.NewSelect().
		Model(&recipes).
		Relation("Steps").
		Relation("Ingredients").
		Order("r.id ASC").
		Scan(ctx)
	return recipes, errors.WithStack(err)
}

func (svc *Service) ListChores(ctx context.Context) ([]*models.Chore, error) {
	chores := []*models.Chore{}
	err := svc.db.NewSelect().Model(&chores).Order("ch.id ASC").Scan(ctx)
	return chores, errors.WithStack(err)
}

func (svc *Service) ListChoreLogs(ctx context.Context) ([]*models.ChoreLog, error) {
	logs := []*models.ChoreLog{}
	err := svc.db.NewSelect().Model(&logs).Order("chl.id ASC").Scan(ctx)
	return logs, errors.WithStack(err)
}

func (svc *Service) ListTodoItems(ctx context.Context) ([]*models.TodoItem, error) {
	items := []*models.TodoItem{}
	err := svc.db.NewSelect().Model(&items).Order("ti.id ASC").Scan(ctx)
	return items, errors.WithStack(err)
}

func (svc *Service) ListShoppingListItems(ctx context.Context) ([]*models.ShoppingListItem, error) {
	items := []*models.ShoppingListItem{}
	err := svc.db.NewSelect().
		Model(&items).
		Relation("Product").
		Order("sli.id ASC").
		Scan(ctx)
	return items, errors.WithStack(err)
}

func (svc *Service) ListStorageBins(ctx context.Context) ([]*models.StorageBin, error) {
	bins := []*models.StorageBin{}
	err := svc.db.NewSelect().Model(&bins).Order("sb.id ASC").Scan(ctx)
	return bins, errors.WithStack(err)
}

// HomeProfile returns the active home profile, or nil if none exists.
func (svc *Service) HomeProfile(ctx context.Context) (*models.HomeProfile, error) {
	profiles := []*models.HomeProfile{}
	err := svc.db.NewSelect().
		Model(&profiles).
		Relation("Utilities").
		Order("hp.id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	return profiles[0], nil
}

func (svc *Service) ListCalendarEvents(ctx context.Context) ([]*models.CalendarEvent, error) {
	events := []*models.CalendarEvent{}
	err := svc.db.NewSelect().Model(&events).Order("cal.id ASC").Scan(ctx)
	return events, errors.WithStack(err)
}

func (svc *Service) ListStockEntries(ctx context.Context) ([]*models.StockEntry, error) {
	entries := []*models.StockEntry{}
	err := svc.db.NewSelect().
		Model(&entries).
		Relation("Product").
		Order("se.id ASC").
		Scan(ctx)
	return entries, errors.WithStack(err)
}

// Counts returns the number of local items per category, in transfer order.
func (svc *Service) Counts(ctx context.Context) ([]CategoryCount, error) {
	counts := []CategoryCount{}

	for _, c := range []struct {
		category string
		model    interface{}
	}{
		{CategoryLocations, (*models.Location)(nil)},
		{CategoryQuantityUnits, (*models.QuantityUnit)(nil)},
		{CategoryProductGroups, (*models.ProductGroup)(nil)},
		{CategoryContacts, (*models.Contact)(nil)},
		{CategoryProducts, (*models.Product)(nil)},
		{CategoryEquipment, (*models.Equipment)(nil)},
		{CategoryVehicles, (*models.Vehicle)(nil)},
		{CategoryRecipes, (*models.Recipe)(nil)},
		{CategoryChores, (*models.Chore)(nil)},
		{CategoryChoreLogs, (*models.ChoreLog)(nil)},
		{CategoryTodoItems, (*models.TodoItem)(nil)},
		{CategoryShoppingList, (*models.ShoppingListItem)(nil)},
		{CategoryStorageBins, (*models.StorageBin)(nil)},
		{CategoryHomeProfile, (*models.HomeProfile)(nil)},
		{CategoryCalendarEvents, (*models.CalendarEvent)(nil)},
		{CategoryStock, (*models.StockEntry)(nil)},
	} {
		count, err := svc.db.NewSelect().Model(c.model).Count(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		counts = append(counts, CategoryCount{Category: c.category, Count: count})
	}

	return counts, nil
}

func (svc *Service) CreateLocation(ctx context.Context, location *models.Location) error {
	setTimestamps(&location.CreatedAt, &location.UpdatedAt)
	_, err := svc.db.NewInsert().Model(location).Returning("*").Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) CreateProduct(ctx context.Context, product *models.Product) error {
	setTimestamps(&product.CreatedAt, &product.UpdatedAt)
	_, err := svc.db.NewInsert().Model(product).Returning("*").Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) CreateChore(ctx context.Context, chore *models.Chore) error {
	setTimestamps(&chore.CreatedAt, &chore.UpdatedAt)
	_, err := svc.db.NewInsert().Model(chore).Returning("*").Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) CreateTodoItem(ctx context.Context, item *models.TodoItem) error {
	setTimestamps(&item.CreatedAt, &item.UpdatedAt)
	_, err := svc.db.NewInsert().Model(item).Returning("*").Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) CreateShoppingListItem(ctx context.Context, item *models.ShoppingListItem) error {
	setTimestamps(&item.CreatedAt, &item.UpdatedAt)
	_, err := svc.db.NewInsert().Model(item).Returning("*").Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) CreateStockEntry(ctx context.Context, entry *models.StockEntry) error {
	setTimestamps(&entry.CreatedAt, &entry.UpdatedAt)
	_, err := svc.db.NewInsert().Model(entry).Returning("*").Exec(ctx)
	return errors.WithStack(err)
}

func setTimestamps(createdAt, updatedAt *time.Time) {
	now := time.Now()
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = *createdAt
}
