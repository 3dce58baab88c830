package household

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/hauskeep/hauskeep/pkg/auth"
)

// RegisterRoutes registers the household CRUD routes. All routes require
// authentication.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) {
	service := NewService(db)

	h := &handler{
		service: service,
	}

	locations := e.Group("/locations", authMiddleware.Authenticate)
	locations.GET("", h.listLocations)
	locations.POST("", h.createLocation)

	products := e.Group("/products", authMiddleware.Authenticate)
	products.GET("", h.listProducts)
	products.POST("", h.createProduct)

	chores := e.Group("/chores", authMiddleware.Authenticate)
	chores.GET("", h.listChores)
	chores.POST("", h.createChore)

	todoItems := e.Group("/todo-items", authMiddleware.Authenticate)
	todoItems.GET("", h.listTodoItems)
	todoItems.POST("", h.createTodoItem)

	shoppingList := e.Group("/shopping-list", authMiddleware.Authenticate)
	shoppingList.GET("", h.listShoppingListItems)
	shoppingList.POST("", h.createShoppingListItem)

	stock := e.Group("/stock", authMiddleware.Authenticate)
	stock.GET("", h.listStockEntries)
	stock.POST("", h.createStockEntry)
}
