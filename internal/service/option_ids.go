package service

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/sahlct/E-Portal-server/pkg/apperr"
)

// NormalizeOptionIDs folds the heterogeneous encodings clients send for
// variation option selections into one canonical, de-duplicated id set.
// Accepted shapes per raw element:
//   - a single id
//   - a comma-separated list of ids
//   - a JSON array of id strings (`["a","b"]`)
//
// Handlers collect repeated/bracketed form fields into the raw slice before
// calling this, so the engine itself never sees a transport encoding.
func NormalizeOptionIDs(raw []string) ([]uuid.UUID, error) {
	var parts []string
	for _, value := range raw {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if strings.HasPrefix(value, "[") {
			var arr []string
			if err := json.Unmarshal([]byte(value), &arr); err != nil {
				return nil, apperr.Validation("variation_option_ids is not a valid JSON array")
			}
			parts = append(parts, arr...)
			continue
		}
		parts = append(parts, strings.Split(value, ",")...)
	}

	seen := make(map[uuid.UUID]bool, len(parts))
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, apperr.Validation("invalid variation_option_id: %s", part)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}
