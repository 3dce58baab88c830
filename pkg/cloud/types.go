package cloud

import "time"

// Auth endpoints.

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type SessionResponse struct {
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type SessionInfoResponse struct {
	Email string `json:"email"`
}

// CreatedResponse is the uniform response to every create endpoint.
type CreatedResponse struct {
	ID string `json:"id"`
}

// Locations.

type RemoteLocation struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreateLocationRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// Quantity units.

type RemoteQuantityUnit struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreateQuantityUnitRequest struct {
	Name        string  `json:"name"`
	NamePlural  *string `json:"name_plural,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Product groups.

type RemoteProductGroup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreateProductGroupRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// Contacts.

type RemoteContact struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  *string `json:"last_name,omitempty"`
}

type CreateContactRequest struct {
	FirstName string  `json:"first_name"`
	LastName  *string `json:"last_name,omitempty"`
	Company   *string `json:"company,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

type CreateContactAddressRequest struct {
	Label   string  `json:"label"`
	Street  string  `json:"street"`
	City    string  `json:"city"`
	ZipCode *string `json:"zip_code,omitempty"`
	Country *string `json:"country,omitempty"`
}

type CreateContactPhoneRequest struct {
	Label  string `json:"label"`
	Number string `json:"number"`
}

type CreateContactEmailRequest struct {
	Label   string `json:"label"`
	Address string `json:"address"`
}

// Products.

type RemoteProduct struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreateProductRequest struct {
	Name           string  `json:"name"`
	Description    *string `json:"description,omitempty"`
	LocationID     *string `json:"location_id,omitempty"`
	QuantityUnitID *string `json:"quantity_unit_id,omitempty"`
	ProductGroupID *string `json:"product_group_id,omitempty"`
	MinStockAmount float64 `json:"min_stock_amount"`
}

type CreateProductBarcodeRequest struct {
	Barcode string  `json:"barcode"`
	Note    *string `json:"note,omitempty"`
}

// Equipment.

type RemoteEquipment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreateEquipmentRequest struct {
	Name         string     `json:"name"`
	Description  *string    `json:"description,omitempty"`
	PurchasedAt  *time.Time `json:"purchased_at,omitempty"`
	WarrantyInfo *string    `json:"warranty_info,omitempty"`
}

// Vehicles.

type RemoteVehicle struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	LicensePlate *string `json:"license_plate,omitempty"`
}

type CreateVehicleRequest struct {
	Name         string  `json:"name"`
	LicensePlate *string `json:"license_plate,omitempty"`
	Make         *string `json:"make,omitempty"`
	Model        *string `json:"model,omitempty"`
}

type CreateVehicleServiceRequest struct {
	Name         string     `json:"name"`
	IntervalDays *int       `json:"interval_days,omitempty"`
	LastDoneAt   *time.Time `json:"last_done_at,omitempty"`
}

// Recipes.

type RemoteRecipe struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreateRecipeRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Servings    int     `json:"servings"`
}

type CreateRecipeStepRequest struct {
	SortOrder   int    `json:"sort_order"`
	Instruction string `json:"instruction"`
}

type CreateRecipeIngredientRequest struct {
	ProductID *string `json:"product_id,omitempty"`
	Amount    float64 `json:"amount"`
	Note      *string `json:"note,omitempty"`
}

// Chores.

type RemoteChore struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreateChoreRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	PeriodType  string  `json:"period_type"`
	PeriodDays  *int    `json:"period_days,omitempty"`
}

// Chore logs are batched: the whole list succeeds or fails as a unit.

type CreateChoreLogRequest struct {
	ChoreID *string   `json:"chore_id,omitempty"`
	DoneAt  time.Time `json:"done_at"`
	DoneBy  *string   `json:"done_by,omitempty"`
}

type CreateChoreLogBatchRequest struct {
	Logs []CreateChoreLogRequest `json:"logs"`
}

type CreateChoreLogBatchResponse struct {
	CreatedCount int `json:"created_count"`
}

// Todo items.

type RemoteTodoItem struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

type CreateTodoItemRequest struct {
	Description string     `json:"description"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	Done        bool       `json:"done"`
}

// Shopping list.

type RemoteShoppingListItem struct {
	ID        string  `json:"id"`
	Note      string  `json:"note"`
	ProductID *string `json:"product_id,omitempty"`
}

type CreateShoppingListItemRequest struct {
	Note      string  `json:"note"`
	Amount    float64 `json:"amount"`
	ProductID *string `json:"product_id,omitempty"`
}

// Storage bins.

type RemoteStorageBin struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreateStorageBinRequest struct {
	Name       string  `json:"name"`
	LocationID *string `json:"location_id,omitempty"`
}

// Home profile (singleton, update-or-create).

type UpsertHomeProfileRequest struct {
	Name      string     `json:"name"`
	Address   *string    `json:"address,omitempty"`
	MovedInAt *time.Time `json:"moved_in_at,omitempty"`
}

type CreateHomeUtilityRequest struct {
	Name          string  `json:"name"`
	Provider      *string `json:"provider,omitempty"`
	AccountNumber *string `json:"account_number,omitempty"`
}

// Calendar events.

type RemoteCalendarEvent struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at"`
}

type CreateCalendarEventRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}

// Stock.

type RemoteStockEntry struct {
	ID             string     `json:"id"`
	ProductID      *string    `json:"product_id,omitempty"`
	Amount         float64    `json:"amount"`
	BestBeforeDate *time.Time `json:"best_before_date,omitempty"`
}

type CreateStockEntryRequest struct {
	ProductID      *string    `json:"product_id,omitempty"`
	LocationID     *string    `json:"location_id,omitempty"`
	Amount         float64    `json:"amount"`
	BestBeforeDate *time.Time `json:"best_before_date,omitempty"`
}
