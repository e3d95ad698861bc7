package comment

import (
	"encoding/json"
	"testing"
	"time"
)

func TestView(t *testing.T) {
	c := &Comment{
		ID:        3,
		Content:   "new comment",
		CreatedAt: time.Date(2025, 11, 8, 11, 0, 0, 0, time.UTC),
	}

	seoul := time.FixedZone("KST", 9*60*60)

	tests := []struct {
		name string
		loc  *time.Location
		want string
	}{
		{"nil location is utc", nil, "2025-11-08 11:00:00"},
		{"utc", time.UTC, "2025-11-08 11:00:00"},
		{"fixed offset", seoul, "2025-11-08 20:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := c.View(tt.loc)
			if v.CreatedAt != tt.want {
				t.Errorf("created_at = %q, want %q", v.CreatedAt, tt.want)
			}
			if v.ID != c.ID || v.Content != c.Content {
				t.Errorf("view = %+v, want id/content copied", v)
			}
		})
	}
}

func TestViewDropsSubSecond(t *testing.T) {
	c := &Comment{CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 999_000_000, time.UTC)}
	if got := c.View(nil).CreatedAt; got != "2025-01-02 03:04:05" {
		t.Errorf("created_at = %q", got)
	}
}

func TestViewsEmptyMarshalsAsArray(t *testing.T) {
	data, err := json.Marshal(Views(nil, time.UTC))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("json = %s, want []", data)
	}
}

func TestViewJSONKeys(t *testing.T) {
	c := &Comment{ID: 1, Content: "hello", CreatedAt: time.Date(2025, 11, 8, 10, 0, 0, 0, time.UTC)}
	data, err := json.Marshal(c.View(time.UTC))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":1,"content":"hello","created_at":"2025-11-08 10:00:00"}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}
