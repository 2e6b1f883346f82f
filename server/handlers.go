package server

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"library-catalog/library"
)

type handler struct {
	mgr *library.LibraryManager
}

type borrowPayload struct {
	MembershipID string `json:"membership_id"`
	ISBN         string `json:"isbn"`
	LoanDays     int    `json:"loan_days"`
}

type returnPayload struct {
	MembershipID string `json:"membership_id"`
	ISBN         string `json:"isbn"`
}

// ------------------ Books ------------------

func (h *handler) addBook(c echo.Context) error {
	params := library.AddBookOptions{}
	if err := c.Bind(&params); err != nil {
		return err
	}

	book, err := h.mgr.AddBook(c.Request().Context(), params)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.JSON(http.StatusCreated, book))
}

func (h *handler) searchBooks(c echo.Context) error {
	field, err := library.ParseSearchField(c.QueryParam("field"))
	if err != nil {
		return errors.WithStack(err)
	}

	books, err := h.mgr.SearchBooks(c.QueryParam("q"), field)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.JSON(http.StatusOK, books))
}

func (h *handler) retrieveBook(c echo.Context) error {
	book, err := h.mgr.GetBook(c.Param("isbn"))
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) updateBook(c echo.Context) error {
	params := library.UpdateBookOptions{}
	if err := c.Bind(&params); err != nil {
		return err
	}

	book, err := h.mgr.UpdateBook(c.Request().Context(), c.Param("isbn"), params)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) removeBook(c echo.Context) error {
	if err := h.mgr.RemoveBook(c.Request().Context(), c.Param("isbn")); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

// ------------------ Borrowers ------------------

func (h *handler) addBorrower(c echo.Context) error {
	params := library.AddBorrowerOptions{}
	if err := c.Bind(&params); err != nil {
		return err
	}

	borrower, err := h.mgr.AddBorrower(c.Request().Context(), params)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.JSON(http.StatusCreated, borrower))
}

func (h *handler) listBorrowers(c echo.Context) error {
	return errors.WithStack(c.JSON(http.StatusOK, h.mgr.GetAllBorrowers()))
}

func (h *handler) retrieveBorrower(c echo.Context) error {
	borrower, err := h.mgr.GetBorrower(c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.JSON(http.StatusOK, borrower))
}

func (h *handler) updateBorrower(c echo.Context) error {
	params := library.UpdateBorrowerOptions{}
	if err := c.Bind(&params); err != nil {
		return err
	}

	borrower, err := h.mgr.UpdateBorrower(c.Request().Context(), c.Param("id"), params)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.JSON(http.StatusOK, borrower))
}

func (h *handler) removeBorrower(c echo.Context) error {
	if err := h.mgr.RemoveBorrower(c.Request().Context(), c.Param("id")); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

// ------------------ Loans ------------------

func (h *handler) listLoans(c echo.Context) error {
	return errors.WithStack(c.JSON(http.StatusOK, h.mgr.GetAllLoans()))
}

func (h *handler) borrowBook(c echo.Context) error {
	params := borrowPayload{}
	if err := c.Bind(&params); err != nil {
		return err
	}

	loan, err := h.mgr.BorrowBook(c.Request().Context(), params.MembershipID, params.ISBN, params.LoanDays)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.JSON(http.StatusCreated, loan))
}

func (h *handler) returnBook(c echo.Context) error {
	params := returnPayload{}
	if err := c.Bind(&params); err != nil {
		return err
	}

	loan, err := h.mgr.ReturnBook(c.Request().Context(), params.MembershipID, params.ISBN)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.JSON(http.StatusOK, loan))
}

func (h *handler) listOverdue(c echo.Context) error {
	overdue := slices.Collect(h.mgr.ListOverdue())
	if overdue == nil {
		overdue = []library.OverdueLoan{}
	}
	return errors.WithStack(c.JSON(http.StatusOK, overdue))
}
