package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/GregMSThompson/dashboard-backend/internal/errs"
)

// decodeJSON reads the request body into v. Malformed bodies become validation errors.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.NewValidationError("invalid request body")
	}
	return nil
}
