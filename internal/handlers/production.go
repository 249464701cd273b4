package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/PablitoBueno/agroManager/internal/logging"
	authmw "github.com/PablitoBueno/agroManager/internal/middleware/auth"
	"github.com/PablitoBueno/agroManager/internal/models"
	"github.com/PablitoBueno/agroManager/internal/mykafka"
	"github.com/PablitoBueno/agroManager/internal/scope"
)

type ProductionHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *ProductionHandler) scope(c echo.Context) scope.Scope {
	return scope.New(h.DB, authmw.CurrentUser(c).UserID)
}

func (h *ProductionHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "production_events", fmt.Sprint(event["user_id"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

func (h *ProductionHandler) Create(c echo.Context) error {
	var req struct {
		CultureID   uint    `json:"culture_id"`
		Quantity    float64 `json:"quantity"`
		HarvestDate string  `json:"harvest_date"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Quantity <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity must be positive")
	}
	harvestDate, err := time.Parse(dateLayout, req.HarvestDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "harvest_date must be a date in YYYY-MM-DD format")
	}

	sc := h.scope(c)

	// The referenced culture must belong to the caller.
	var culture models.Culture
	if err := sc.Cultures().Where("id = ?", req.CultureID).First(&culture).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "culture not found")
	}

	production := models.Production{
		UserID:      sc.UserID(),
		CultureID:   culture.ID,
		Quantity:    req.Quantity,
		HarvestDate: harvestDate,
	}
	if err := h.DB.Create(&production).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create production")
	}

	h.publish(c, map[string]any{
		"type":       "production_recorded",
		"user_id":    production.UserID,
		"culture_id": production.CultureID,
		"quantity":   production.Quantity,
	})

	return c.JSON(http.StatusCreated, production)
}

func (h *ProductionHandler) List(c echo.Context) error {
	filters, err := bindProductionFilters(c)
	if err != nil {
		return err
	}

	var productions []models.Production
	q := filters.apply(h.scope(c).Productions())
	if err := q.Order("harvest_date ASC").Find(&productions).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "database error")
	}

	return c.JSON(http.StatusOK, productions)
}

func (h *ProductionHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid production id")
	}

	sc := h.scope(c)
	var production models.Production
	if err := sc.Productions().Where("id = ?", id).First(&production).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "production not found")
	}

	if err := h.DB.Delete(&production).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not delete production")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "production deleted"})
}
