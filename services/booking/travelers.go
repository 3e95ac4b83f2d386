package booking

import (
	"fmt"

	"travelagency/models"
	"travelagency/utils"
)

var categories = []string{models.TravelerAdult, models.TravelerChild, models.TravelerBaby}

func (c Counts) of(category string) int {
	switch category {
	case models.TravelerAdult:
		return c.Adults
	case models.TravelerChild:
		return c.Children
	case models.TravelerBaby:
		return c.Babies
	}
	return 0
}

// syncTravelers rebuilds the traveler list to match Counts. Entries are kept by
// (category, index); entries beyond a lowered count stay in Retained so raising
// the count again restores them.
func (w *Wizard) syncTravelers() {
	if w.Retained == nil {
		w.Retained = map[string][]models.Traveler{}
	}

	seen := map[string]int{}
	for _, t := range w.Travelers {
		i := seen[t.Type]
		seen[t.Type]++
		kept := w.Retained[t.Type]
		if i < len(kept) {
			kept[i] = t
		} else {
			kept = append(kept, t)
		}
		w.Retained[t.Type] = kept
	}

	list := make([]models.Traveler, 0, w.Counts.Total())
	for _, cat := range categories {
		n := w.Counts.of(cat)
		kept := w.Retained[cat]
		for i := 0; i < n; i++ {
			if i >= len(kept) {
				kept = append(kept, models.Traveler{Type: cat})
			}
			list = append(list, kept[i])
		}
		if len(kept) > 0 {
			w.Retained[cat] = kept
		}
	}
	w.Travelers = list
}

func errTravelerIndex(i, n int) error {
	return utils.NewValidationError("travelers", "index %d out of range (%d travelers)", i, n)
}

// travelerLabel names a traveler in validation messages, e.g. "child 2".
func travelerLabel(travelers []models.Traveler, i int) string {
	cat := travelers[i].Type
	n := 0
	for j := 0; j <= i; j++ {
		if travelers[j].Type == cat {
			n++
		}
	}
	switch cat {
	case models.TravelerChild:
		return fmt.Sprintf("child %d", n)
	case models.TravelerBaby:
		return fmt.Sprintf("baby %d", n)
	default:
		return fmt.Sprintf("adult %d", n)
	}
}
