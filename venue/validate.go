package venue

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks field constraints and the uniqueness rules a layout relies
// on: section ids, row labels within a section and seat labels within a row.
// Empty sections and rows are valid.
func Validate(layout *Layout) error {
	if layout == nil {
		return errors.New("layout is required")
	}
	if err := validate.Struct(layout); err != nil {
		return fmt.Errorf("layout %s: %w", layout.EventID, err)
	}

	sectionIDs := make(map[string]bool, len(layout.Sections))
	for _, section := range layout.Sections {
		if sectionIDs[section.ID] {
			return fmt.Errorf("layout %s: duplicate section id %q", layout.EventID, section.ID)
		}
		sectionIDs[section.ID] = true

		rowLabels := make(map[string]bool, len(section.Rows))
		for _, row := range section.Rows {
			if rowLabels[row.Label] {
				return fmt.Errorf("section %s: duplicate row %q", section.ID, row.Label)
			}
			rowLabels[row.Label] = true

			seatLabels := make(map[string]bool, len(row.Seats))
			for _, seat := range row.Seats {
				if seatLabels[seat.Label] {
					return fmt.Errorf("section %s row %s: duplicate seat %q", section.ID, row.Label, seat.Label)
				}
				seatLabels[seat.Label] = true
			}
		}
	}
	return nil
}
