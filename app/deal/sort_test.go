package deal

import (
	"testing"
	"time"
)

func stamp(s string) *string {
	return &s
}

func ids(deals []Deal) []string {
	out := make([]string, len(deals))
	for i, d := range deals {
		out[i] = d.ID
	}
	return out
}

func assertOrder(t *testing.T, deals []Deal, expected ...string) {
	t.Helper()
	got := ids(deals)
	if len(got) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("Expected %v, got %v", expected, got)
		}
	}
}

func TestSortByRecency(t *testing.T) {
	deals := []Deal{
		{ID: "t1", Timestamp: stamp("2024-01-01T10:00:00.000Z")},
		{ID: "t3", Timestamp: stamp("2024-01-03T10:00:00.000Z")},
		{ID: "t2", Timestamp: stamp("2024-01-02T10:00:00.000Z")},
	}

	SortByRecency(deals)

	assertOrder(t, deals, "t3", "t2", "t1")
}

func TestSortByRecencyReversesAscendingInput(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	deals := make([]Deal, 0, 5)
	for i := 0; i < 5; i++ {
		deals = append(deals, Deal{
			ID:        string(rune('a' + i)),
			Timestamp: stamp(base.Add(time.Duration(i) * time.Minute).Format(time.RFC3339)),
		})
	}

	SortByRecency(deals)

	assertOrder(t, deals, "e", "d", "c", "b", "a")
}

func TestSortByRecencyInvalidTimestampsLast(t *testing.T) {
	deals := []Deal{
		{ID: "missing"},
		{ID: "blank", Timestamp: stamp("")},
		{ID: "garbage", Timestamp: stamp("not a date")},
		{ID: "old", Timestamp: stamp("2023-01-01T00:00:00Z")},
		{ID: "new", Timestamp: stamp("2024-01-01T00:00:00+02:00")},
	}

	SortByRecency(deals)

	assertOrder(t, deals, "new", "old", "missing", "blank", "garbage")
}

func TestSortByRecencyStableForTies(t *testing.T) {
	deals := []Deal{
		{ID: "first", Timestamp: stamp("2024-01-01T00:00:00Z")},
		{ID: "second", Timestamp: stamp("2024-01-01T00:00:00.000Z")},
		{ID: "third", Timestamp: stamp("2024-01-01T00:00:00Z")},
	}

	SortByRecency(deals)

	assertOrder(t, deals, "first", "second", "third")
}

func TestParseTimestamp(t *testing.T) {
	if !ParseTimestamp("").IsZero() {
		t.Error("Expected zero time for empty input")
	}
	if !ParseTimestamp("nonsense").IsZero() {
		t.Error("Expected zero time for unparseable input")
	}

	got := ParseTimestamp("2024-03-05 14:30:00")
	want := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
