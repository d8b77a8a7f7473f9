package achievements

import (
	"time"

	"github.com/abhisek/storyreel/internal/catalog"
)

// Achievement ids. The strings are persisted and must not change.
const (
	FirstSteps    = "first-steps"
	FirstAside    = "first-aside"
	AsideHunter   = "aside-hunter"
	CoffeeAddict  = "coffee-addict"
	Explorer      = "explorer"
	TheEnd        = "the-end"
	Completionist = "completionist"
)

// Definition is one entry of the achievement catalog.
type Definition struct {
	ID          string
	Title       string
	Description string
	Icon        string

	// MaxProgress, when positive, completes the achievement once reached.
	MaxProgress int

	// Hidden achievements show as ??? until unlocked.
	Hidden bool
}

// HasProgress reports whether the achievement tracks a numeric target.
func (d Definition) HasProgress() bool { return d.MaxProgress > 0 }

// Record is the persisted state of one achievement.
type Record struct {
	ID         string     `json:"id"`
	Completed  bool       `json:"completed"`
	UnlockedAt *time.Time `json:"unlockedAt"`
	Progress   int        `json:"progress"`
}

// Status pairs a definition with its record for display.
type Status struct {
	Definition Definition
	Record     Record
}

// Unlocked reports whether the achievement has been completed.
func (s Status) Unlocked() bool { return s.Record.Completed }

// Masked reports whether the status should render as ???.
func (s Status) Masked() bool {
	return s.Definition.Hidden && !s.Record.Completed
}

// Definitions builds the achievement catalog for a scene catalog. Progress
// targets follow the catalog's size; aside and coffee achievements are left
// out of catalogs that have nothing to find, and scene-move achievements out
// of single-scene catalogs.
func Definitions(cat *catalog.Catalog) []Definition {
	var defs []Definition
	if cat.Len() > 1 {
		defs = append(defs, Definition{
			ID:          FirstSteps,
			Title:       "First Steps",
			Description: "Move past the opening scene",
			Icon:        "👣",
		})
	}
	if n := cat.TotalAsides(); n > 0 {
		defs = append(defs,
			Definition{
				ID:          FirstAside,
				Title:       "Curious Mind",
				Description: "Open your first aside",
				Icon:        "💬",
			},
			Definition{
				ID:          AsideHunter,
				Title:       "Aside Hunter",
				Description: "Open every aside in the story",
				Icon:        "🔍",
				MaxProgress: n,
			},
		)
	}
	if n := cat.TotalCoffee(); n > 0 {
		defs = append(defs, Definition{
			ID:          CoffeeAddict,
			Title:       "Coffee Addict",
			Description: "Find the hidden coffee",
			Icon:        "☕",
			MaxProgress: min(5, n),
		})
	}
	defs = append(defs, Definition{
		ID:          Explorer,
		Title:       "Explorer",
		Description: "Visit every scene",
		Icon:        "🧭",
		MaxProgress: cat.Len(),
	})
	if cat.Len() > 1 {
		defs = append(defs, Definition{
			ID:          TheEnd,
			Title:       "The End?",
			Description: "Reach the final scene",
			Icon:        "🏁",
		})
	}
	return append(defs,
		Definition{
			ID:          Completionist,
			Title:       "Completionist",
			Description: "Unlock everything and open every aside",
			Icon:        "🏆",
			Hidden:      true,
		},
	)
}
