package server

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNoCatalogData indicates the catalog has nothing to score against yet.
type ErrNoCatalogData struct {
	What string
}

func (e *ErrNoCatalogData) Error() string {
	return fmt.Sprintf("no %s available: run ingestion first", e.What)
}

// ErrCorruptCatalog indicates catalog data exists but none of it is usable.
type ErrCorruptCatalog struct {
	What    string
	Dropped int
}

func (e *ErrCorruptCatalog) Error() string {
	return fmt.Sprintf("catalog corrupt: all %d %s failed validation", e.Dropped, e.What)
}

// ErrResultsSealed indicates per-candidate results are not yet public.
type ErrResultsSealed struct{}

func (e *ErrResultsSealed) Error() string {
	return "results sealed"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation *ErrValidation
		noData     *ErrNoCatalogData
		corrupt    *ErrCorruptCatalog
		sealed     *ErrResultsSealed
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &noData):
		return http.StatusNotFound
	case errors.As(err, &sealed):
		return http.StatusForbidden
	case errors.As(err, &corrupt):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
