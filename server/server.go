package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"

	"library-catalog/config"
	"library-catalog/library"
)

// New returns an HTTP server exposing the catalog operations as JSON
// endpoints.
func New(cfg *config.Config, mgr *library.LibraryManager) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           NewEcho(mgr),
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// NewEcho builds the router on its own, which is what tests drive.
func NewEcho(mgr *library.LibraryManager) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())

	health.RegisterRoutes(e)
	registerRoutes(e, mgr)

	e.HTTPErrorHandler = newErrorHandler().Handle

	return e
}

func registerRoutes(e *echo.Echo, mgr *library.LibraryManager) {
	h := &handler{mgr: mgr}

	books := e.Group("/books")
	books.POST("", h.addBook)
	books.GET("", h.searchBooks)
	books.GET("/:isbn", h.retrieveBook)
	books.PATCH("/:isbn", h.updateBook)
	books.DELETE("/:isbn", h.removeBook)

	borrowers := e.Group("/borrowers")
	borrowers.POST("", h.addBorrower)
	borrowers.GET("", h.listBorrowers)
	borrowers.GET("/:id", h.retrieveBorrower)
	borrowers.PATCH("/:id", h.updateBorrower)
	borrowers.DELETE("/:id", h.removeBorrower)

	loans := e.Group("/loans")
	loans.GET("", h.listLoans)
	loans.POST("", h.borrowBook)
	loans.POST("/return", h.returnBook)
	loans.GET("/overdue", h.listOverdue)
}
