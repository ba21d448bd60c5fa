package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/sadopc/taskdeck/internal/api"
)

func ToCSV(todos []api.Todo, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Item", "Status", "Created", "Updated"}); err != nil {
		return err
	}

	for _, t := range todos {
		row := []string{
			t.ID,
			t.Item,
			statusLabel(t.IsDone),
			t.CreatedAt,
			t.UpdatedAt,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func statusLabel(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
