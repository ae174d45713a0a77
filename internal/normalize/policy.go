package normalize

// Field identifies a redactable part of a trip record.
// The set is closed so a policy can be audited as data instead of being
// scattered across conditional checks.
type Field string

const (
	// FieldNotes covers trip-level and day-level personal notes.
	FieldNotes Field = "notes"
	// FieldCoordinates covers precise latitude/longitude values.
	FieldCoordinates Field = "coordinates"
	// FieldPlaces covers place and country labels on locations.
	FieldPlaces Field = "places"
	// FieldLinks covers auxiliary trip links.
	FieldLinks Field = "links"
	// FieldMedia covers media references on days.
	FieldMedia Field = "media"
)

// Action is what a rule does to its field.
type Action string

const (
	// ActionKeep leaves the field untouched. Useful for policies built by
	// overriding a stricter base set.
	ActionKeep Action = "keep"
	// ActionOmit removes the field's value entirely.
	ActionOmit Action = "omit"
	// ActionCoarsen reduces precision instead of removing the value.
	// Only meaningful for coordinates; other fields treat it as omit.
	ActionCoarsen Action = "coarsen"
	// ActionPlaceholder replaces a non-empty value with Placeholder.
	// Coordinates treat it as omit — there is no textual stand-in for a
	// position.
	ActionPlaceholder Action = "placeholder"
)

// Placeholder is the stand-in value written by ActionPlaceholder.
const Placeholder = "[private]"

// Rule binds one field to one action.
type Rule struct {
	Field  Field  `json:"field"`
	Action Action `json:"action"`
}

// Policy is a redaction rule set. A later rule for the same field supersedes
// an earlier one, so policies can be built by appending overrides to a
// stricter base set.
// A nil Policy is "no policy", which guest-mode normalization rejects.
type Policy []Rule
