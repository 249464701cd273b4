package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/PablitoBueno/agroManager/internal/logging"
	authmw "github.com/PablitoBueno/agroManager/internal/middleware/auth"
	"github.com/PablitoBueno/agroManager/internal/models"
	"github.com/PablitoBueno/agroManager/internal/mykafka"
	"github.com/PablitoBueno/agroManager/internal/scope"
	"github.com/PablitoBueno/agroManager/internal/service/search"
	"github.com/PablitoBueno/agroManager/internal/util"
)

type StockHandler struct {
	DB       *gorm.DB
	ES       *elasticsearch.Client
	Index    string
	Producer *mykafka.Producer
}

func (h *StockHandler) scope(c echo.Context) scope.Scope {
	return scope.New(h.DB, authmw.CurrentUser(c).UserID)
}

func (h *StockHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "stock_events", fmt.Sprint(event["user_id"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

type stockIn struct {
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	Expiry      string  `json:"expiry"`
	Supplier    string  `json:"supplier"`
}

func (in *stockIn) validate() (*time.Time, error) {
	in.ProductName = strings.TrimSpace(in.ProductName)
	in.Supplier = strings.TrimSpace(in.Supplier)
	if len(in.ProductName) < 2 || len(in.ProductName) > 100 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "product_name must have between 2 and 100 characters")
	}
	if in.Quantity <= 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "quantity must be positive")
	}
	if len(in.Supplier) > 100 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "supplier must have at most 100 characters")
	}
	if in.Expiry == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, in.Expiry)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "expiry must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}

// index mirrors the row into Elasticsearch, best effort.
func (h *StockHandler) index(c echo.Context, item *models.StockItem) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.IndexStockItem(ctx, h.ES, h.Index, item); err != nil {
		logging.FromContext(c.Request().Context()).Error("stock index failed", "error", err, "item_id", item.ID)
	}
}

func (h *StockHandler) deindex(c echo.Context, id uint) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.DeleteStockItem(ctx, h.ES, h.Index, id); err != nil {
		logging.FromContext(c.Request().Context()).Error("stock deindex failed", "error", err, "item_id", id)
	}
}

func (h *StockHandler) Create(c echo.Context) error {
	var req stockIn
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	expiry, err := req.validate()
	if err != nil {
		return err
	}

	item := models.StockItem{
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		Expiry:      expiry,
		Supplier:    req.Supplier,
		UserID:      h.scope(c).UserID(),
	}
	if err := h.DB.Create(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create stock item")
	}

	h.index(c, &item)
	h.publish(c, map[string]any{
		"type":         "stock_created",
		"user_id":      item.UserID,
		"item_id":      item.ID,
		"product_name": item.ProductName,
		"quantity":     item.Quantity,
	})

	return c.JSON(http.StatusCreated, item)
}

func (h *StockHandler) List(c echo.Context) error {
	skip, limit := util.SkipLimit(
		parseIntDefault(c.QueryParam("skip"), 0),
		parseIntDefault(c.QueryParam("limit"), 50),
		50, 200,
	)

	q := h.scope(c).Stock()
	if product := strings.TrimSpace(c.QueryParam("product")); product != "" {
		q = q.Where("lower(product_name) LIKE ?", "%"+strings.ToLower(product)+"%")
	}
	if supplier := strings.TrimSpace(c.QueryParam("supplier")); supplier != "" {
		q = q.Where("lower(supplier) LIKE ?", "%"+strings.ToLower(supplier)+"%")
	}

	var items []models.StockItem
	if err := q.Offset(skip).Limit(limit).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "database error")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *StockHandler) Update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid stock item id")
	}

	var req stockIn
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	expiry, err := req.validate()
	if err != nil {
		return err
	}

	var item models.StockItem
	if err := h.scope(c).Stock().Where("id = ?", id).First(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "stock item not found")
	}

	item.ProductName = req.ProductName
	item.Quantity = req.Quantity
	item.Expiry = expiry
	item.Supplier = req.Supplier
	if err := h.DB.Save(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not update stock item")
	}

	h.index(c, &item)
	h.publish(c, map[string]any{
		"type":         "stock_updated",
		"user_id":      item.UserID,
		"item_id":      item.ID,
		"product_name": item.ProductName,
		"quantity":     item.Quantity,
	})

	return c.JSON(http.StatusOK, item)
}

func (h *StockHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid stock item id")
	}

	var item models.StockItem
	if err := h.scope(c).Stock().Where("id = ?", id).First(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "stock item not found")
	}

	if err := h.DB.Delete(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not delete stock item")
	}

	h.deindex(c, item.ID)
	h.publish(c, map[string]any{
		"type":    "stock_deleted",
		"user_id": item.UserID,
		"item_id": item.ID,
	})

	return c.NoContent(http.StatusNoContent)
}
