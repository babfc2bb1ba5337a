package session

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
)

// A FieldUpdate is a partial, field-optional fragment extracted by the
// router: raw JSON values keyed by entity field name.
type FieldUpdate map[string]json.RawMessage

// filtered drops fields whose value is null, an empty string, or an empty
// list. Those count as "not actually provided", never as "clear this field".
func (u FieldUpdate) filtered() FieldUpdate {
	return lo.PickBy(u, func(_ string, raw json.RawMessage) bool {
		return !isEmptyValue(raw)
	})
}

func isEmptyValue(raw json.RawMessage) bool {
	switch v := string(bytes.TrimSpace(raw)); v {
	case "", "null", `""`, "[]":
		return true
	default:
		return false
	}
}

// MergeTripSpec overlays the non-empty fields of update onto spec and
// reconstructs a validated TripSpec. On any validation failure the original
// spec should be kept by the caller; the returned value is only meaningful
// when err is nil.
func MergeTripSpec(spec TripSpec, update FieldUpdate) (TripSpec, error) {
	var merged TripSpec
	if err := overlay(&spec, update.filtered(), &merged); err != nil {
		return TripSpec{}, fmt.Errorf("merge trip_spec: %w", err)
	}
	return merged, nil
}

// MergeUserProfile overlays the non-empty fields of update onto profile and
// reconstructs a validated UserProfile. Interests are append-only: incoming
// tags extend the existing list instead of replacing it, keeping first-seen
// order and dropping duplicates.
func MergeUserProfile(profile UserProfile, update FieldUpdate) (UserProfile, error) {
	existing := slicesCloneOrNil(profile.Interests)
	update = update.filtered()

	var merged UserProfile
	if err := overlay(&profile, update, &merged); err != nil {
		return UserProfile{}, fmt.Errorf("merge user_profile: %w", err)
	}
	if err := merged.Validate(); err != nil {
		return UserProfile{}, fmt.Errorf("merge user_profile: %w", err)
	}

	if _, ok := update["interests"]; ok && len(existing) > 0 {
		merged.Interests = lo.Uniq(append(existing, merged.Interests...))
	}
	return merged, nil
}

// overlay dumps current to a field map, applies update on top, and decodes
// the result into out. Unknown incoming fields are ignored, mirroring the
// tolerant shape of router output.
func overlay[T any](current *T, update FieldUpdate, out *T) error {
	data, err := json.Marshal(current)
	if err != nil {
		return err
	}

	fields := FieldUpdate{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for k, v := range update {
		fields[k] = v
	}

	data, err = json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func slicesCloneOrNil(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
