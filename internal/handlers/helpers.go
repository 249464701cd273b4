package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func parseDateParam(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}

// productionFilters are the optional query bounds shared by the production
// list and the production statistics endpoints.
type productionFilters struct {
	From      *time.Time
	To        *time.Time
	CultureID uint
}

func bindProductionFilters(c echo.Context) (productionFilters, error) {
	var f productionFilters

	from, err := parseDateParam(c, "from")
	if err != nil {
		return f, err
	}
	to, err := parseDateParam(c, "to")
	if err != nil {
		return f, err
	}

	f.From = from
	f.To = to
	f.CultureID = uint(parseIntDefault(c.QueryParam("culture_id"), 0))
	return f, nil
}

func (f productionFilters) apply(q *gorm.DB) *gorm.DB {
	if f.From != nil {
		q = q.Where("harvest_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("harvest_date <= ?", *f.To)
	}
	if f.CultureID != 0 {
		q = q.Where("culture_id = ?", f.CultureID)
	}
	return q
}
