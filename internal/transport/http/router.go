package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/PablitoBueno/agroManager/internal/auth"
	"github.com/PablitoBueno/agroManager/internal/handlers"
	authmw "github.com/PablitoBueno/agroManager/internal/middleware/auth"
)

type Deps struct {
	Tokens            *auth.TokenService
	AuthHandler       *handlers.AuthHandler
	CultureHandler    *handlers.CultureHandler
	ProductionHandler *handlers.ProductionHandler
	StockHandler      *handlers.StockHandler
	StatsHandler      *handlers.StatsHandler
	SearchHandler     *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/users", d.AuthHandler.Register)
	v1.POST("/auth/login", d.AuthHandler.Login)

	requireLogin := authmw.RequireLogin(d.Tokens)

	v1.POST("/auth/logout", d.AuthHandler.Logout, requireLogin)
	v1.GET("/users/me", d.AuthHandler.Me, requireLogin)

	cultures := v1.Group("/cultures", requireLogin)
	cultures.POST("", d.CultureHandler.Create)
	cultures.GET("", d.CultureHandler.List)
	cultures.GET("/:id", d.CultureHandler.Get)
	cultures.PUT("/:id", d.CultureHandler.Update)
	cultures.DELETE("/:id", d.CultureHandler.Delete)

	productions := v1.Group("/productions", requireLogin)
	productions.POST("", d.ProductionHandler.Create)
	productions.GET("", d.ProductionHandler.List)
	productions.DELETE("/:id", d.ProductionHandler.Delete)

	stock := v1.Group("/stock", requireLogin)
	stock.POST("", d.StockHandler.Create)
	stock.GET("", d.StockHandler.List)
	stock.PUT("/:id", d.StockHandler.Update)
	stock.DELETE("/:id", d.StockHandler.Delete)

	v1.GET("/stats/production", d.StatsHandler.Production, requireLogin)
	v1.GET("/search", d.SearchHandler.Search, requireLogin)
}
