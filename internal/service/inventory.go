package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"acgl-management-api/internal/model"
	"acgl-management-api/internal/repository"
	"acgl-management-api/pkg/errors"
	"acgl-management-api/pkg/validation"
)

// NotificationService interface for sending inventory-change notifications
type NotificationService interface {
	SendInventoryNotification(ctx context.Context, notification InventoryNotification) error
}

// InventoryNotification describes one change to a collection, including the
// recounted collection size for the dashboard badges.
type InventoryNotification struct {
	Type     NotificationType
	Entity   string
	RecordID int64
	Count    int
	Message  string
	Metadata map[string]string
}

// NotificationType represents the type of notification
type NotificationType string

const (
	NotificationTypeRecordCreated NotificationType = "record_created"
	NotificationTypeRecordUpdated NotificationType = "record_updated"
	NotificationTypeRecordDeleted NotificationType = "record_deleted"
)

// Inventory is the entity manager shared by every collection. It owns
// validation, the role check on delete, search, and the change notifications;
// the per-entity differences live entirely in the schema registry.
type Inventory struct {
	stores   map[string]repository.EntityStore
	schemas  map[string]model.Schema
	notifier NotificationService
	logger   *log.Logger
}

// NewInventory creates an Inventory over pre-built stores, keyed by
// collection name. Used directly by tests; production wiring goes through
// NewInventoryFromDB.
func NewInventory(stores map[string]repository.EntityStore, notifier NotificationService, logger *log.Logger) *Inventory {
	if logger == nil {
		logger = log.Default()
	}
	schemas := make(map[string]model.Schema, len(model.Registry))
	for _, s := range model.Registry {
		schemas[s.Name] = s
	}
	return &Inventory{
		stores:   stores,
		schemas:  schemas,
		notifier: notifier,
		logger:   logger,
	}
}

// NewInventoryFromDB builds one table store per registered schema.
func NewInventoryFromDB(db *sql.DB, notifier NotificationService, logger *log.Logger) *Inventory {
	stores := make(map[string]repository.EntityStore, len(model.Registry))
	for _, s := range model.Registry {
		stores[s.Name] = repository.NewEntityStore(db, s)
	}
	return NewInventory(stores, notifier, logger)
}

// resolve maps a collection name to its store and schema. Unknown names are
// a not-found condition, never a panic.
func (s *Inventory) resolve(entity string) (repository.EntityStore, model.Schema, error) {
	schema, ok := s.schemas[entity]
	if !ok {
		return nil, model.Schema{}, errors.NotFoundError(fmt.Sprintf("collection %q", entity))
	}
	store, ok := s.stores[entity]
	if !ok {
		return nil, model.Schema{}, errors.NotFoundError(fmt.Sprintf("collection %q", entity))
	}
	return store, schema, nil
}

// Create validates the submitted fields against the entity's schema and
// inserts a new record. The sr_number is assigned by the store atomically;
// created_by records the acting user. No mutation happens on a validation
// failure.
func (s *Inventory) Create(ctx context.Context, entity, actor string, fields map[string]string) (*model.Record, error) {
	store, schema, err := s.resolve(entity)
	if err != nil {
		return nil, err
	}

	fields = validation.FilterKnownFields(schema, fields)
	if errs := validation.ValidateRecordInput(schema, fields); len(errs) > 0 {
		return nil, errors.ValidationError(strings.Join(errs, "; "))
	}

	id, err := store.Insert(ctx, model.Record{Fields: fields, CreatedBy: actor})
	if err != nil {
		return nil, errors.DatabaseError(fmt.Sprintf("failed to create %s", schema.Label), err)
	}

	created, err := store.GetByID(ctx, id)
	if err != nil {
		return nil, errors.DatabaseError(fmt.Sprintf("failed to load created %s", schema.Label), err)
	}

	go s.notifyChange(entity, NotificationTypeRecordCreated, created.ID,
		fmt.Sprintf("%s #%d created by %s", schema.Label, created.ID, actor))

	s.logger.Printf("%s created: id=%d sr=%d by=%s", schema.Label, created.ID, created.SrNumber, actor)
	return created, nil
}

// Get retrieves a single record by id.
func (s *Inventory) Get(ctx context.Context, entity string, id int64) (*model.Record, error) {
	store, schema, err := s.resolve(entity)
	if err != nil {
		return nil, err
	}

	rec, err := store.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrRecordNotFound {
			return nil, errors.NotFoundError(schema.Label)
		}
		return nil, errors.DatabaseError(fmt.Sprintf("failed to retrieve %s", schema.Label), err)
	}
	return rec, nil
}

// Update replaces a record's fields in place, matched by id only. The id,
// sr_number and audit fields are preserved.
func (s *Inventory) Update(ctx context.Context, entity string, id int64, fields map[string]string) (*model.Record, error) {
	store, schema, err := s.resolve(entity)
	if err != nil {
		return nil, err
	}

	existing, err := store.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrRecordNotFound {
			return nil, errors.NotFoundError(schema.Label)
		}
		return nil, errors.DatabaseError(fmt.Sprintf("failed to retrieve %s for update", schema.Label), err)
	}

	// Absent keys keep their stored value, so a partial submit cannot blank
	// unrelated fields.
	merged := existing.Clone().Fields
	for k, v := range validation.FilterKnownFields(schema, fields) {
		merged[k] = v
	}
	if errs := validation.ValidateRecordInput(schema, merged); len(errs) > 0 {
		return nil, errors.ValidationError(strings.Join(errs, "; "))
	}

	if err := store.Update(ctx, id, merged); err != nil {
		if err == repository.ErrRecordNotFound {
			return nil, errors.NotFoundError(schema.Label)
		}
		return nil, errors.DatabaseError(fmt.Sprintf("failed to update %s", schema.Label), err)
	}

	updated, err := store.GetByID(ctx, id)
	if err != nil {
		return nil, errors.DatabaseError(fmt.Sprintf("failed to load updated %s", schema.Label), err)
	}

	go s.notifyChange(entity, NotificationTypeRecordUpdated, id,
		fmt.Sprintf("%s #%d updated", schema.Label, id))

	s.logger.Printf("%s updated: id=%d", schema.Label, id)
	return updated, nil
}

// Delete removes a record. Only roles holding delete permission may call it;
// anyone else gets a forbidden error and the collection is untouched.
func (s *Inventory) Delete(ctx context.Context, entity string, id int64, role model.Role) error {
	store, schema, err := s.resolve(entity)
	if err != nil {
		return err
	}

	if !role.CanDelete() {
		return errors.ForbiddenError(fmt.Sprintf("role %q may not delete records", role))
	}

	if err := store.Delete(ctx, id); err != nil {
		if err == repository.ErrRecordNotFound {
			return errors.NotFoundError(schema.Label)
		}
		return errors.DatabaseError(fmt.Sprintf("failed to delete %s", schema.Label), err)
	}

	go s.notifyChange(entity, NotificationTypeRecordDeleted, id,
		fmt.Sprintf("%s #%d deleted", schema.Label, id))

	s.logger.Printf("%s deleted: id=%d", schema.Label, id)
	return nil
}

// List returns every record of a collection, newest first.
func (s *Inventory) List(ctx context.Context, entity string) ([]model.Record, error) {
	store, schema, err := s.resolve(entity)
	if err != nil {
		return nil, err
	}

	records, err := store.List(ctx)
	if err != nil {
		return nil, errors.DatabaseError(fmt.Sprintf("failed to list %s", schema.Name), err)
	}
	return records, nil
}

// Search returns the subset of List whose any field contains the term,
// case-insensitively. The underlying collection is never mutated.
func (s *Inventory) Search(ctx context.Context, entity, term string) ([]model.Record, error) {
	store, schema, err := s.resolve(entity)
	if err != nil {
		return nil, err
	}

	records, err := store.Search(ctx, term)
	if err != nil {
		return nil, errors.DatabaseError(fmt.Sprintf("failed to search %s", schema.Name), err)
	}
	return records, nil
}

// Stats recounts every collection for the dashboard summary badges. SAP and
// non-SAP servers also roll up into a combined "servers" figure.
func (s *Inventory) Stats(ctx context.Context) (map[string]int, error) {
	stats := make(map[string]int, len(s.schemas)+1)
	for name, store := range s.stores {
		count, err := store.Count(ctx)
		if err != nil {
			return nil, errors.DatabaseError(fmt.Sprintf("failed to count %s", name), err)
		}
		stats[name] = count
	}
	stats["servers"] = stats["sap_servers"] + stats["non_sap_servers"]
	return stats, nil
}

// notifyChange recounts the collection and emits an async change event.
// Failures are logged and swallowed; notifications never fail an operation.
func (s *Inventory) notifyChange(entity string, typ NotificationType, id int64, message string) {
	if s.notifier == nil {
		return
	}

	ctx := context.Background()
	count := 0
	if store, ok := s.stores[entity]; ok {
		c, err := store.Count(ctx)
		if err != nil {
			s.logger.Printf("Failed to recount %s for notification: %v", entity, err)
		} else {
			count = c
		}
	}

	n := InventoryNotification{
		Type:     typ,
		Entity:   entity,
		RecordID: id,
		Count:    count,
		Message:  message,
		Metadata: map[string]string{
			"record_id": fmt.Sprintf("%d", id),
		},
	}
	if err := s.notifier.SendInventoryNotification(ctx, n); err != nil {
		s.logger.Printf("Failed to send %s notification for %s: %v", typ, entity, err)
	}
}
