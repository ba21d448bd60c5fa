package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/taskdeck/internal/api"
)

func sampleTodos() []api.Todo {
	return []api.Todo{
		{
			ID:        "t1",
			Item:      "buy milk",
			UserID:    "u1",
			IsDone:    true,
			CreatedAt: "2026-08-01T10:00:00Z",
			UpdatedAt: "2026-08-02T10:00:00Z",
		},
		{
			ID:        "t2",
			Item:      "walk the dog",
			UserID:    "u1",
			IsDone:    false,
			CreatedAt: "2026-08-03T10:00:00Z",
			UpdatedAt: "2026-08-03T10:00:00Z",
		},
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(sampleTodos(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 2 data rows
	if len(records) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(records))
	}

	header := records[0]
	expectedHeader := []string{"ID", "Item", "Status", "Created", "Updated"}
	for i, h := range expectedHeader {
		if header[i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], h)
		}
	}

	row := records[1]
	if row[0] != "t1" || row[1] != "buy milk" {
		t.Fatalf("row = %v", row)
	}
	if row[2] != "done" {
		t.Fatalf("status = %q, want done", row[2])
	}
	if records[2][2] != "pending" {
		t.Fatalf("status = %q, want pending", records[2][2])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, _ := csv.NewReader(f).ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected header only, got %d rows", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	todos := []api.Todo{
		{ID: "t1", Item: `item with "quotes" and, commas`},
	}
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := ToCSV(todos, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("CSV should stay valid with special chars: %v", err)
	}
	if records[1][1] != `item with "quotes" and, commas` {
		t.Fatalf("item mangled: %q", records[1][1])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(sampleTodos(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 2 || len(result.Todos) != 2 {
		t.Fatalf("count = %d, todos = %d", result.Count, len(result.Todos))
	}
	if result.Todos[0].ID != "t1" || result.Todos[0].Status != "done" {
		t.Fatalf("first todo = %+v", result.Todos[0])
	}
	if result.Todos[1].Status != "pending" {
		t.Fatalf("second todo = %+v", result.Todos[1])
	}

	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not RFC3339: %q", result.ExportedAt)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)
	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
	if result.Todos != nil {
		t.Fatal("todos should be null for empty export")
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(sampleTodos(), path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n") || !strings.Contains(string(data), "  ") {
		t.Fatal("JSON should be indented")
	}
}
