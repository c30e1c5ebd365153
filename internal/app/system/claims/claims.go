// internal/app/system/claims/claims.go

// Package claims keeps the "clubIds" custom claim on a user's auth token
// equal to the set of clubs where that user holds an active, approved
// membership.
//
// The claims bag is opaque: this package owns the clubIds key and nothing
// else. Every write reads the current bag first and merges, so foreign keys
// placed there by other systems survive.
package claims

import "github.com/dalemusser/huntclub/internal/app/system/identity"

// Merge returns a new claims bag with every key of existing preserved and
// clubIds overwritten. existing may be nil.
func Merge(existing map[string]any, clubIDs []string) map[string]any {
	merged := make(map[string]any, len(existing)+1)
	for k, v := range existing {
		merged[k] = v
	}
	if clubIDs == nil {
		clubIDs = []string{}
	}
	merged[identity.ClubIDsClaim] = clubIDs
	return merged
}

// ClubIDsFrom extracts the clubIds list from a claims bag. A missing or
// malformed key means "member of no clubs", never an error.
func ClubIDsFrom(bag map[string]any) []string {
	raw, ok := bag[identity.ClubIDsClaim]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
