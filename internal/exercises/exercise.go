package exercises

import (
	"fmt"
	"strings"
	"time"
)

type Type string

const (
	TypeStrength    Type = "Strength"
	TypeCardio      Type = "Cardio"
	TypeFlexibility Type = "Flexibility"
	TypeCustom      Type = "Custom"
)

// ParseType maps the boundary string to an exercise type.
// An empty string falls back to Custom.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeStrength, TypeCardio, TypeFlexibility, TypeCustom:
		return Type(s), nil
	case "":
		return TypeCustom, nil
	default:
		return "", fmt.Errorf("unknown exercise type: %s", s)
	}
}

const (
	SourceGlobal = "global"
	SourceUser   = "user"
)

type Exercise struct {
	ExerciseID   string    `json:"exercise_id"`
	Name         string    `json:"name"`
	Type         Type      `json:"type"`
	MuscleGroups []string  `json:"muscle_groups"`
	UserID       string    `json:"user_id,omitempty"` // empty for global exercises
	CreatedAt    time.Time `json:"created_at"`
}

// LibraryEntry is an exercise as it appears in the combined library view,
// tagged so callers can tell where each entry came from after the merge.
type LibraryEntry struct {
	Exercise
	IsCustom bool   `json:"is_custom"`
	Source   string `json:"source"`
}

type Library struct {
	Global   []Exercise     `json:"global"`
	Custom   []Exercise     `json:"custom"`
	Combined []LibraryEntry `json:"combined"`
}

// BuildLibrary merges the global and user-scoped collections, global entries
// first. No deduplication across scopes: a custom exercise sharing an id with
// a global one appears twice in the combined list, distinguished by its tags.
func BuildLibrary(global, custom []Exercise) *Library {
	combined := make([]LibraryEntry, 0, len(global)+len(custom))
	for _, ex := range global {
		combined = append(combined, LibraryEntry{
			Exercise: ex,
			IsCustom: false,
			Source:   SourceGlobal,
		})
	}
	for _, ex := range custom {
		combined = append(combined, LibraryEntry{
			Exercise: ex,
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

// ParseMuscleGroups splits the boundary comma-separated form
// ("chest, triceps,,shoulders") into clean tokens.
func ParseMuscleGroups(s string) []string {
	groups := make([]string, 0)
	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		groups = append(groups, token)
	}
	return groups
}
