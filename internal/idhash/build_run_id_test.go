package idhash

import "testing"

func TestComputeBuildRunID(t *testing.T) {
	tests := []struct {
		name        string
		season      string
		window      int
		epsilon     float64
		dataVersion string
	}{
		{name: "default window", season: "2021-22", window: 10, epsilon: 1e-6, dataVersion: "abc"},
		{name: "short window", season: "2021-22", window: 5, epsilon: 1e-6, dataVersion: "abc"},
		{name: "empty table", season: "2019-20", window: 10, epsilon: 1e-6, dataVersion: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := ComputeBuildRunID(tt.season, tt.window, tt.epsilon, tt.dataVersion)
			if len(id) != 64 {
				t.Errorf("expected 64 hex chars, got %d", len(id))
			}
			if again := ComputeBuildRunID(tt.season, tt.window, tt.epsilon, tt.dataVersion); again != id {
				t.Errorf("expected deterministic id, got %s then %s", id, again)
			}
		})
	}
}

func TestComputeBuildRunID_InputsMatter(t *testing.T) {
	base := ComputeBuildRunID("2021-22", 10, 1e-6, "v1")

	variants := map[string]string{
		"season":       ComputeBuildRunID("2022-23", 10, 1e-6, "v1"),
		"window":       ComputeBuildRunID("2021-22", 9, 1e-6, "v1"),
		"epsilon":      ComputeBuildRunID("2021-22", 10, 1e-3, "v1"),
		"data version": ComputeBuildRunID("2021-22", 10, 1e-6, "v2"),
	}
	for field, id := range variants {
		if id == base {
			t.Errorf("changing %s should change the id", field)
		}
	}
}
