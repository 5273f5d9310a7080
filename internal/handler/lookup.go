package handler

import (
	"log"
	"net/http"

	"acgl-management-api/internal/repository"
)

// LookupHandler serves the dropdown source lists (plants, departments).
type LookupHandler struct {
	Store  repository.LookupStore
	Logger *log.Logger

	ErrorHandler   *ErrorHandler
	ResponseHelper *ResponseHelper
}

// NewLookupHandler creates a new LookupHandler.
func NewLookupHandler(store repository.LookupStore, logger *log.Logger) *LookupHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &LookupHandler{
		Store:          store,
		Logger:         logger,
		ErrorHandler:   NewErrorHandler(logger),
		ResponseHelper: NewResponseHelper(),
	}
}

// PlantsHandler returns the plant list.
func (h *LookupHandler) PlantsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	plants, err := h.Store.Plants(ctx)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "list plants")
		return
	}
	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, plants)
}

// DepartmentsHandler returns the department list.
func (h *LookupHandler) DepartmentsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	departments, err := h.Store.Departments(ctx)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "list departments")
		return
	}
	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, departments)
}
