// Package export renders group expenses as downloadable reports.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/mmynk/wesplit/internal/models"
)

var baseHeader = []string{"Date", "Title", "Amount", "Currency", "Paid By", "Category", "Status"}

// WriteCSV writes one row per expense, settled ones included. With shares,
// a column per group participant (sorted by name) holds the participant's
// share of each expense, 0 when they have none.
func WriteCSV(w io.Writer, group models.Group, expenses []models.Expense, withShares bool) error {
	participants := make([]models.Participant, len(group.Participants))
	copy(participants, group.Participants)
	sort.SliceStable(participants, func(i, j int) bool {
		return participants[i].Name < participants[j].Name
	})

	cw := csv.NewWriter(w)

	header := append([]string(nil), baseHeader...)
	if withShares {
		for _, p := range participants {
			header = append(header, p.Name)
		}
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, e := range expenses {
		row := []string{
			e.Date.UTC().Format("2006-01-02"),
			e.Title,
			formatValue(e.TotalAmount),
			e.TotalAmount.CurrencyCode,
			e.PayedBy.Name,
			string(e.Category),
			string(e.Status),
		}
		if withShares {
			for _, p := range participants {
				value := "0"
				if s, ok := e.Share(p); ok {
					value = formatValue(s.Amount)
				}
				row = append(row, value)
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatValue(a models.Amount) string {
	return a.Value.StringFixed(models.MinorUnits(a.CurrencyCode))
}
