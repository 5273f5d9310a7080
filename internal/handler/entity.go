package handler

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"acgl-management-api/internal/middleware"
	"acgl-management-api/internal/model"
	apperrors "acgl-management-api/pkg/errors"
)

// EntityHandler binds the entity manager to the REST surface. One handler
// serves every collection; the entity is a path variable resolved against
// the schema registry.
type EntityHandler struct {
	Service InventoryService
	Logger  *log.Logger

	ErrorHandler   *ErrorHandler
	ResponseHelper *ResponseHelper
}

// NewEntityHandler creates a new EntityHandler with dependencies and helpers
func NewEntityHandler(svc InventoryService, logger *log.Logger) *EntityHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &EntityHandler{
		Service:        svc,
		Logger:         logger,
		ErrorHandler:   NewErrorHandler(logger),
		ResponseHelper: NewResponseHelper(),
	}
}

// resolveSchema maps the {entity} path variable to a registered schema.
func (h *EntityHandler) resolveSchema(w http.ResponseWriter, r *http.Request) (model.Schema, bool) {
	entity := mux.Vars(r)["entity"]
	schema, ok := model.SchemaFor(entity)
	if !ok {
		h.ErrorHandler.SendErrorResponse(w, http.StatusNotFound, "Unknown collection", string(apperrors.ErrorCodeNotFound), nil)
		return model.Schema{}, false
	}
	return schema, true
}

// ListHandler handles the retrieval of all records of a collection.
func (h *EntityHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, LongRunningTimeout)
	defer cancel()

	schema, ok := h.resolveSchema(w, r)
	if !ok {
		return
	}

	records, err := h.Service.List(ctx, schema.Name)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "list")
		return
	}

	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, h.ResponseHelper.RecordsPayload(schema, records))
}

// GetHandler handles the retrieval of a single record. A missing record is
// an empty object, not an error; only edit and delete treat absence as a
// failure.
func (h *EntityHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	schema, ok := h.resolveSchema(w, r)
	if !ok {
		return
	}
	id, valid := h.ErrorHandler.ParseAndValidateID(w, mux.Vars(r)["id"])
	if !valid {
		return
	}

	rec, err := h.Service.Get(ctx, schema.Name, id)
	if err != nil {
		if appErr, isApp := apperrors.AsAppError(err); isApp && appErr.Code == apperrors.ErrorCodeNotFound {
			h.ErrorHandler.SendJSONResponse(w, http.StatusOK, map[string]interface{}{})
			return
		}
		h.ErrorHandler.HandleServiceError(w, err, "retrieve")
		return
	}

	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, h.ResponseHelper.RecordPayload(schema, *rec))
}

// CreateHandler handles the creation of a new record.
func (h *EntityHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	schema, ok := h.resolveSchema(w, r)
	if !ok {
		return
	}

	fields, err := h.ResponseHelper.DecodeFields(r.Body)
	if err != nil {
		h.ErrorHandler.HandleJSONDecodeError(w, err)
		return
	}

	actor := ""
	if marker, found := middleware.MarkerFromContext(r.Context()); found {
		actor = marker.Username
	}

	rec, err := h.Service.Create(ctx, schema.Name, actor, fields)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "create")
		return
	}

	h.ErrorHandler.SendJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"id":      rec.ID,
	})
}

// UpdateHandler handles the in-place update of a record, matched by id.
func (h *EntityHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	schema, ok := h.resolveSchema(w, r)
	if !ok {
		return
	}
	id, valid := h.ErrorHandler.ParseAndValidateID(w, mux.Vars(r)["id"])
	if !valid {
		return
	}

	fields, err := h.ResponseHelper.DecodeFields(r.Body)
	if err != nil {
		h.ErrorHandler.HandleJSONDecodeError(w, err)
		return
	}

	if _, err := h.Service.Update(ctx, schema.Name, id, fields); err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "update")
		return
	}

	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, map[string]interface{}{"success": true})
}

// DeleteHandler handles the deletion of a record. The role check happens in
// the service; hiding delete buttons client-side is not a security boundary.
func (h *EntityHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, DefaultTimeout)
	defer cancel()

	schema, ok := h.resolveSchema(w, r)
	if !ok {
		return
	}
	id, valid := h.ErrorHandler.ParseAndValidateID(w, mux.Vars(r)["id"])
	if !valid {
		return
	}

	marker, found := middleware.MarkerFromContext(r.Context())
	if !found {
		h.ErrorHandler.SendErrorResponse(w, http.StatusUnauthorized, "session required", string(apperrors.ErrorCodeUnauthorized), nil)
		return
	}

	if err := h.Service.Delete(ctx, schema.Name, id, marker.Role); err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "delete")
		return
	}

	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, map[string]interface{}{"success": true})
}

// SearchHandler handles the substring search across every field of a
// collection.
func (h *EntityHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, LongRunningTimeout)
	defer cancel()

	schema, ok := h.resolveSchema(w, r)
	if !ok {
		return
	}
	term := mux.Vars(r)["term"]

	records, err := h.Service.Search(ctx, schema.Name, term)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "search")
		return
	}

	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, h.ResponseHelper.RecordsPayload(schema, records))
}

// StatsHandler serves the per-collection counts for the dashboard badges.
func (h *EntityHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ResponseHelper.CreateRequestContext(r, LongRunningTimeout)
	defer cancel()

	stats, err := h.Service.Stats(ctx)
	if err != nil {
		h.ErrorHandler.HandleServiceError(w, err, "stats")
		return
	}

	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stats":   stats,
	})
}

// HealthHandler provides a health check endpoint
func (h *EntityHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.ErrorHandler.SendJSONResponse(w, http.StatusOK, h.ResponseHelper.CreateHealthCheckData())
}
