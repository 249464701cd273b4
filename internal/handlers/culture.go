package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	authmw "github.com/PablitoBueno/agroManager/internal/middleware/auth"
	"github.com/PablitoBueno/agroManager/internal/models"
	"github.com/PablitoBueno/agroManager/internal/scope"
	"github.com/PablitoBueno/agroManager/internal/util"
)

type CultureHandler struct {
	DB *gorm.DB
}

func (h *CultureHandler) scope(c echo.Context) scope.Scope {
	return scope.New(h.DB, authmw.CurrentUser(c).UserID)
}

type cultureIn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (in *cultureIn) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if len(in.Name) < 2 || len(in.Name) > 100 {
		return echo.NewHTTPError(http.StatusBadRequest, "name must have between 2 and 100 characters")
	}
	return nil
}

// nameTaken reports whether another of the user's cultures already uses the
// name, comparing trimmed and case-insensitively.
func nameTaken(q *gorm.DB, name string, excludeID uint) (bool, error) {
	var existing models.Culture
	q = q.Where("lower(name) = ?", strings.ToLower(name))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (h *CultureHandler) Create(c echo.Context) error {
	var req cultureIn
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	sc := h.scope(c)
	taken, err := nameTaken(sc.Cultures(), req.Name, 0)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "database error")
	}
	if taken {
		return echo.NewHTTPError(http.StatusBadRequest, "a culture with this name already exists")
	}

	culture := models.Culture{
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		UserID:      sc.UserID(),
	}
	if err := h.DB.Create(&culture).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create culture")
	}

	return c.JSON(http.StatusCreated, culture)
}

func (h *CultureHandler) List(c echo.Context) error {
	sc := h.scope(c)

	skip, limit := util.SkipLimit(
		parseIntDefault(c.QueryParam("skip"), 0),
		parseIntDefault(c.QueryParam("limit"), 100),
		100, 200,
	)

	q := sc.Cultures()
	if name := strings.TrimSpace(c.QueryParam("name")); name != "" {
		// lower() on both sides keeps the match case-insensitive on
		// postgres, where plain LIKE is not.
		q = q.Where("lower(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	var cultures []models.Culture
	if err := q.Offset(skip).Limit(limit).Find(&cultures).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "database error")
	}

	return c.JSON(http.StatusOK, cultures)
}

func (h *CultureHandler) Get(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid culture id")
	}

	var culture models.Culture
	if err := h.scope(c).Cultures().Where("id = ?", id).First(&culture).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "culture not found")
	}

	return c.JSON(http.StatusOK, culture)
}

func (h *CultureHandler) Update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid culture id")
	}

	var req cultureIn
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	sc := h.scope(c)
	var culture models.Culture
	if err := sc.Cultures().Where("id = ?", id).First(&culture).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "culture not found")
	}

	taken, err := nameTaken(sc.Cultures(), req.Name, culture.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "database error")
	}
	if taken {
		return echo.NewHTTPError(http.StatusBadRequest, "another culture already uses this name")
	}

	culture.Name = req.Name
	culture.Description = strings.TrimSpace(req.Description)
	if err := h.DB.Save(&culture).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not update culture")
	}

	return c.JSON(http.StatusOK, culture)
}

func (h *CultureHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid culture id")
	}

	sc := h.scope(c)
	var culture models.Culture
	if err := sc.Cultures().Where("id = ?", id).First(&culture).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "culture not found")
	}

	var count int64
	if err := sc.Productions().Where("culture_id = ?", culture.ID).Count(&count).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "database error")
	}
	if count > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "culture has associated productions")
	}

	if err := h.DB.Delete(&culture).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not delete culture")
	}

	return c.NoContent(http.StatusNoContent)
}
