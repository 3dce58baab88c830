package household

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/hauskeep/hauskeep/pkg/models"
)

type handler struct {
	service *Service
}

func (h *handler) listLocations(c echo.Context) error {
	ctx := c.Request().Context()

	locations, err := h.service.ListLocations(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Locations []*models.Location `json:"locations"`
	}{locations}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) createLocation(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateLocationPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	location := &models.Location{
		Name:        params.Name,
		Description: params.Description,
	}
	if err := h.service.CreateLocation(ctx, location); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, location))
}

func (h *handler) listProducts(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.service.ListProducts(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Products []*models.Product `json:"products"`
	}{products}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) createProduct(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateProductPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	product := &models.Product{
		Name:           params.Name,
		Description:    params.Description,
		LocationID:     params.LocationID,
		QuantityUnitID: params.QuantityUnitID,
		ProductGroupID: params.ProductGroupID,
	}
	if params.MinStockAmount != nil {
		product.MinStockAmount = *params.MinStockAmount
	}
	if err := h.service.CreateProduct(ctx, product); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, product))
}

func (h *handler) listChores(c echo.Context) error {
	ctx := c.Request().Context()

	chores, err := h.service.ListChores(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Chores []*models.Chore `json:"chores"`
	}{chores}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) createChore(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateChorePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	chore := &models.Chore{
		Name:        params.Name,
		Description: params.Description,
		PeriodType:  params.PeriodType,
		PeriodDays:  params.PeriodDays,
	}
	if err := h.service.CreateChore(ctx, chore); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, chore))
}

func (h *handler) listTodoItems(c echo.Context) error {
	ctx := c.Request().Context()

	items, err := h.service.ListTodoItems(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		TodoItems []*models.TodoItem `json:"todo_items"`
	}{items}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) createTodoItem(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateTodoItemPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	item := &models.TodoItem{
		Description: params.Description,
		DueAt:       params.DueAt,
	}
	if err := h.service.CreateTodoItem(ctx, item); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, item))
}

func (h *handler) listShoppingListItems(c echo.Context) error {
	ctx := c.Request().Context()

	items, err := h.service.ListShoppingListItems(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Items []*models.ShoppingListItem `json:"items"`
	}{items}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) createShoppingListItem(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateShoppingListItemPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	item := &models.ShoppingListItem{
		ProductID: params.ProductID,
		Amount:    1,
	}
	if params.Note != nil {
		item.Note = *params.Note
	}
	if params.Amount != nil {
		item.Amount = *params.Amount
	}
	if err := h.service.CreateShoppingListItem(ctx, item); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, item))
}

func (h *handler) listStockEntries(c echo.Context) error {
	ctx := c.Request().Context()

	entries, err := h.service.ListStockEntries(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Entries []*models.StockEntry `json:"entries"`
	}{entries}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) createStockEntry(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateStockEntryPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	entry := &models.StockEntry{
		ProductID:      params.ProductID,
		LocationID:     params.LocationID,
		Amount:         params.Amount,
		BestBeforeDate: params.BestBeforeDate,
	}
	if err := h.service.CreateStockEntry(ctx, entry); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, entry))
}
