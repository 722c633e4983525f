package templates

import "time"

// TemplateExercise is one slot in a template's ordered exercise sequence.
// Order is assigned by position at creation time, 1-indexed.
type TemplateExercise struct {
	ExerciseID string `json:"exercise_id"`
	Order      int    `json:"order"`
}

type Template struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Exercises []TemplateExercise `json:"exercises"`
	IsGlobal  bool               `json:"is_global"`
	UserID    string             `json:"user_id,omitempty"` // empty for global templates
	CreatedAt time.Time          `json:"created_at"`
}

// Normalize reassigns exercise orders by sequence position, ignoring whatever
// order values the caller supplied, and strips the owner off global templates.
func (t *Template) Normalize() {
	for i := range t.Exercises {
		t.Exercises[i].Order = i + 1
	}
	if t.IsGlobal {
		t.UserID = ""
	}
}

// Library is the merged template view for one user: everything global plus
// everything the user owns, with the combined list tagged per entry.
type Library struct {
	Global   []Template     `json:"global"`
	Custom   []Template     `json:"custom"`
	Combined []LibraryEntry `json:"combined"`
}

type LibraryEntry struct {
	Template
	IsCustom bool   `json:"is_custom"`
	Source   string `json:"source"`
}

const (
	SourceGlobal = "global"
	SourceUser   = "user"
)

// BuildLibrary merges global templates and a user's own, global first,
// without deduplication across the two scopes.
func BuildLibrary(global, custom []Template) *Library {
	combined := make([]LibraryEntry, 0, len(global)+len(custom))
	for _, t := range global {
		combined = append(combined, LibraryEntry{
			Template: t,
			IsCustom: false,
			Source:   SourceGlobal,
		})
	}
	for _, t := range custom {
		combined = append(combined, LibraryEntry{
			Template: t,
			IsCustom: true,
			Source:   SourceUser,
		})
	}

	return &Library{
		Global:   global,
		Custom:   custom,
		Combined: combined,
	}
}
