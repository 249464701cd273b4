package handlers

import (
	"math"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	authmw "github.com/PablitoBueno/agroManager/internal/middleware/auth"
	"github.com/PablitoBueno/agroManager/internal/models"
	"github.com/PablitoBueno/agroManager/internal/scope"
)

type StatsHandler struct {
	DB *gorm.DB
}

// Production aggregates the caller's production quantities under the same
// optional filters as the production list.
func (h *StatsHandler) Production(c echo.Context) error {
	filters, err := bindProductionFilters(c)
	if err != nil {
		return err
	}

	sc := scope.New(h.DB, authmw.CurrentUser(c).UserID)

	var productions []models.Production
	if err := filters.apply(sc.Productions()).Find(&productions).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "database error")
	}

	if len(productions) == 0 {
		return c.JSON(http.StatusOK, echo.Map{
			"message": "no production found for these filters",
		})
	}

	total := 0.0
	min := productions[0].Quantity
	max := productions[0].Quantity
	for _, p := range productions {
		total += p.Quantity
		if p.Quantity < min {
			min = p.Quantity
		}
		if p.Quantity > max {
			max = p.Quantity
		}
	}
	average := math.Round(total/float64(len(productions))*100) / 100

	return c.JSON(http.StatusOK, echo.Map{
		"count":   len(productions),
		"total":   total,
		"average": average,
		"min":     min,
		"max":     max,
	})
}
