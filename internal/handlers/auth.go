package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/PablitoBueno/agroManager/internal/auth"
	"github.com/PablitoBueno/agroManager/internal/hash"
	"github.com/PablitoBueno/agroManager/internal/logging"
	authmw "github.com/PablitoBueno/agroManager/internal/middleware/auth"
	"github.com/PablitoBueno/agroManager/internal/models"
	"github.com/PablitoBueno/agroManager/internal/mykafka"
)

type AuthHandler struct {
	DB       *gorm.DB
	Tokens   *auth.TokenService
	Producer *mykafka.Producer
}

type userOut struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	CPF   string `json:"cpf"`
	Email string `json:"email"`
}

func (h *AuthHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(event["user_id"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		CPF      string `json:"cpf"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	switch {
	case len(req.Name) < 2 || len(req.Name) > 100:
		return echo.NewHTTPError(http.StatusBadRequest, "name must have between 2 and 100 characters")
	case len(req.CPF) < 11 || len(req.CPF) > 14:
		return echo.NewHTTPError(http.StatusBadRequest, "cpf must have between 11 and 14 characters")
	case !strings.Contains(req.Email, "@"):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid email")
	case len(req.Password) < 6 || len(req.Password) > 100:
		return echo.NewHTTPError(http.StatusBadRequest, "password must have between 6 and 100 characters")
	}

	var existing models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, "database error")
	}
	if err := h.DB.Where("cpf = ?", req.CPF).First(&existing).Error; err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cpf already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, "database error")
	}

	digest, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not hash password")
	}

	user := models.User{
		Name:         req.Name,
		CPF:          req.CPF,
		Email:        req.Email,
		PasswordHash: digest,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create user")
	}

	h.publish(c, map[string]any{
		"type":    "user_registered",
		"user_id": user.ID,
		"email":   user.Email,
	})

	return c.JSON(http.StatusCreated, userOut{ID: user.ID, Name: user.Name, CPF: user.CPF, Email: user.Email})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email" form:"username"`
		Password string `json:"password" form:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		// Same message as a bad password: never reveal which field was wrong.
		return echo.NewHTTPError(http.StatusUnauthorized, "incorrect credentials")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "incorrect credentials")
	}

	token, err := h.Tokens.Issue(user.Email, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not issue token")
	}

	h.publish(c, map[string]any{
		"type":    "user_logged_in",
		"user_id": user.ID,
		"email":   user.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	raw, err := authmw.BearerToken(c)
	if err != nil {
		return err
	}

	h.Tokens.Revoke(raw)

	return c.JSON(http.StatusOK, echo.Map{
		"message": "logged out",
	})
}

func (h *AuthHandler) Me(c echo.Context) error {
	ident := authmw.CurrentUser(c)

	var user models.User
	if err := h.DB.Where("id = ?", ident.UserID).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	return c.JSON(http.StatusOK, userOut{ID: user.ID, Name: user.Name, CPF: user.CPF, Email: user.Email})
}
