package handler

import (
	"encoding/json"
	"io"
	"net/mail"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Ysherlin/ec3-assessment/internal/apperr"
	"github.com/Ysherlin/ec3-assessment/internal/model"
	"github.com/Ysherlin/ec3-assessment/internal/repository"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// LeadCreateRequest defines the payload for creating a lead
type LeadCreateRequest struct {
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Phone  *string `json:"phone"`
	Source *string `json:"source"`
}

// Validate checks the create payload before any storage call runs.
func (r *LeadCreateRequest) Validate() error {
	ve := apperr.NewValidationError()
	if strings.TrimSpace(r.Name) == "" {
		ve.Add("name", "must not be empty")
	}
	if !isValidEmail(r.Email) {
		ve.Add("email", "must be a valid email address")
	}
	if ve.HasErrors() {
		return ve
	}
	return nil
}

// ToLead builds the entity to persist
func (r *LeadCreateRequest) ToLead() *model.Lead {
	return &model.Lead{
		Name:   r.Name,
		Email:  r.Email,
		Phone:  r.Phone,
		Source: r.Source,
	}
}

// parseUpdateFields decodes a partial-update body into a column->value map.
// Key presence is what matters: a key set to an empty value is applied as
// empty, an absent key leaves the stored value untouched. Unknown keys are
// rejected so typos do not silently drop updates.
func parseUpdateFields(body io.Reader) (map[string]interface{}, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, newFieldError("body", "must be a JSON object")
	}

	fields := make(map[string]interface{}, len(raw))
	ve := apperr.NewValidationError()

	for key, value := range raw {
		switch key {
		case "name":
			var name *string
			if err := json.Unmarshal(value, &name); err != nil || name == nil || strings.TrimSpace(*name) == "" {
				ve.Add("name", "must be a non-empty string")
				continue
			}
			fields["name"] = *name
		case "email":
			var email *string
			if err := json.Unmarshal(value, &email); err != nil || email == nil || !isValidEmail(*email) {
				ve.Add("email", "must be a valid email address")
				continue
			}
			fields["email"] = *email
		case "phone", "source":
			// Nullable columns: explicit null clears the stored value.
			var s *string
			if err := json.Unmarshal(value, &s); err != nil {
				ve.Add(key, "must be a string or null")
				continue
			}
			fields[key] = s
		default:
			ve.Add(key, "is not an updatable field")
		}
	}

	if ve.HasErrors() {
		return nil, ve
	}
	return fields, nil
}

// parseListFilter reads pagination and filter query parameters. skip must be
// >= 0 and limit must stay within [1,100]; out-of-range values are rejected,
// not clamped.
func parseListFilter(c echo.Context) (repository.ListFilter, error) {
	filter := repository.ListFilter{
		Name:   c.QueryParam("name"),
		Email:  c.QueryParam("email"),
		Source: c.QueryParam("source"),
		Skip:   0,
		Limit:  defaultLimit,
	}
	ve := apperr.NewValidationError()

	if s := c.QueryParam("skip"); s != "" {
		skip, err := strconv.Atoi(s)
		if err != nil || skip < 0 {
			ve.Add("skip", "must be an integer greater than or equal to 0")
		} else {
			filter.Skip = skip
		}
	}
	if s := c.QueryParam("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 1 || limit > maxLimit {
			ve.Add("limit", "must be an integer between 1 and 100")
		} else {
			filter.Limit = limit
		}
	}

	if ve.HasErrors() {
		return repository.ListFilter{}, ve
	}
	return filter, nil
}

func isValidEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	// Reject forms with display names like "Bob <bob@example.com>"; only the
	// bare address is a valid value for the field.
	return err == nil && addr.Address == email
}
