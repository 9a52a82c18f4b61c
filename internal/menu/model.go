package menu

import (
	"encoding/json"
	"time"
)

// Card is the mess menu as a free-form JSON document, typically keyed by
// weekday and meal.
type Card struct {
	Data      json.RawMessage `json:"data"`
	UpdatedAt *time.Time      `json:"updatedAt,omitempty"`
	UpdatedBy string          `json:"updatedBy,omitempty"`
}
