package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Recipe struct {
	bun.BaseModel `bun:"table:recipes,alias:r"`

	ID          int       `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `bun:",nullzero" json:"name"`
	Description *string   `json:"description,omitempty"`
	Servings    int       `json:"servings"`

	Steps       []*RecipeStep       `bun:"rel:has-many,join:id=recipe_id" json:"steps,omitempty"`
	Ingredients []*RecipeIngredient `bun:"rel:has-many,join:id=recipe_id" json:"ingredients,omitempty"`
}

type RecipeStep struct {
	bun.BaseModel `bun:"table:recipe_steps,alias:rs"`

	ID          int    `bun:",pk,nullzero" json:"id"`
	RecipeID    int    `bun:",nullzero" json:"recipe_id"`
	SortOrder   int    `json:"sort_order"`
	Instruction string `bun:",nullzero" json:"instruction"`
}

type RecipeIngredient struct {
	bun.BaseModel `bun:"table:recipe_ingredients,alias:ri"`

	ID        int     `bun:",pk,nullzero" json:"id"`
	RecipeID  int     `bun:",nullzero" json:"recipe_id"`
	ProductID int     `bun:",nullzero" json:"product_id"`
	Amount    float64 `json:"amount"`
	Note      *string `json:"note,omitempty"`

	Product *Product `bun:"rel:belongs-to,join:product_id=id" json:"product,omitempty"`
}
