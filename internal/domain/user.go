package domain

import (
	"encoding/json"
	"fmt"
	"maps"
)

// Profile is the user object returned by the backend. Its shape varies per
// deployment, so it is kept as a generic JSON object.
type Profile map[string]any

// ParseProfile decodes a persisted profile. Anything other than a JSON object
// (including null) is rejected with ErrInvalidProfile.
func ParseProfile(data []byte) (Profile, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrInvalidProfile
	}
	return Profile(obj), nil
}

// Clone returns a shallow copy of the profile. A nil profile stays nil.
func (p Profile) Clone() Profile {
	if p == nil {
		return nil
	}
	return maps.Clone(p)
}

// Merge returns a new profile with the fields of partial laid over p.
// Only top-level keys are replaced; nested objects are not merged.
func (p Profile) Merge(partial Profile) Profile {
	out := make(Profile, len(p)+len(partial))
	maps.Copy(out, p)
	maps.Copy(out, partial)
	return out
}

// String returns a display value for the profile, preferring the usual
// identity fields the backends return.
func (p Profile) String() string {
	for _, key := range []string{"username", "name", "email", "id"} {
		if v, ok := p[key]; ok && v != nil {
			return fmt.Sprint(v)
		}
	}
	return ""
}
