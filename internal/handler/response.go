package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"acgl-management-api/internal/model"
)

// Constants for request timeouts
const (
	DefaultTimeout     = 10 * time.Second
	LongRunningTimeout = 15 * time.Second
)

// ResponseHelper owns the projection between stored records and their JSON
// form. The stored truth is the record; the JSON is a rendering of it.
type ResponseHelper struct{}

// NewResponseHelper creates a new ResponseHelper instance
func NewResponseHelper() *ResponseHelper {
	return &ResponseHelper{}
}

// CreateRequestContext creates a context with timeout derived from the request
func (rh *ResponseHelper) CreateRequestContext(r *http.Request, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeout)
}

// DecodeFields reads a JSON field map from a request body and coerces every
// scalar to its string form. Booleans become "1"/"0" so flag columns accept
// either representation; unknown keys are filtered later against the schema.
func (rh *ResponseHelper) DecodeFields(body io.Reader) (map[string]string, error) {
	var raw map[string]interface{}
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, err
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		fields[k] = coerceString(v)
	}
	return fields, nil
}

func coerceString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "1"
		}
		return "0"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// RecordPayload flattens a record into one JSON object: id, sr_number, the
// schema fields (flags rendered as booleans), and the audit columns.
func (rh *ResponseHelper) RecordPayload(schema model.Schema, rec model.Record) map[string]interface{} {
	payload := make(map[string]interface{}, len(schema.Fields)+5)
	payload["id"] = rec.ID
	payload["sr_number"] = rec.SrNumber
	for _, f := range schema.Fields {
		value := rec.Field(f.Name)
		if f.Flag {
			payload[f.Name] = value == "1"
			continue
		}
		payload[f.Name] = value
	}
	if rec.CreatedBy != "" {
		payload["created_by"] = rec.CreatedBy
	}
	payload["created_at"] = rec.CreatedAt
	payload["updated_at"] = rec.UpdatedAt
	return payload
}

// RecordsPayload projects a record slice, preserving order. The result is
// never nil so empty collections encode as [].
func (rh *ResponseHelper) RecordsPayload(schema model.Schema, records []model.Record) []map[string]interface{} {
	payloads := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		payloads = append(payloads, rh.RecordPayload(schema, rec))
	}
	return payloads
}

// CreateHealthCheckData creates health check response data
func (rh *ResponseHelper) CreateHealthCheckData() map[string]interface{} {
	return map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"service":   "acgl-management-api",
		"status":    "healthy",
	}
}
