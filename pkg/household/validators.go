package household

import "time"

type CreateLocationPayload struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type CreateProductPayload struct {
	Name           string   `json:"name" validate:"required,max=200"`
	Description    *string  `json:"description" validate:"omitempty,max=2000"`
	LocationID     *int     `json:"location_id"`
	QuantityUnitID *int     `json:"quantity_unit_id"`
	ProductGroupID *int     `json:"product_group_id"`
	MinStockAmount *float64 `json:"min_stock_amount" validate:"omitempty,min=0"`
}

type CreateChorePayload struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	PeriodType  string  `json:"period_type" validate:"required,oneof=manual daily weekly custom"`
	PeriodDays  *int    `json:"period_days" validate:"omitempty,min=1"`
}

type CreateTodoItemPayload struct {
	Description string     `json:"description" validate:"required,max=2000"`
	DueAt       *time.Time `json:"due_at"`
}

type CreateShoppingListItemPayload struct {
	Note      *string  `json:"note" validate:"omitempty,max=2000"`
	Amount    *float64 `json:"amount" validate:"omitempty,gt=0"`
	ProductID *int     `json:"product_id"`
}

type CreateStockEntryPayload struct {
	ProductID      int        `json:"product_id" validate:"required"`
	LocationID     *int       `json:"location_id"`
	Amount         float64    `json:"amount" validate:"gt=0"`
	BestBeforeDate *time.Time `json:"best_before_date"`
}
