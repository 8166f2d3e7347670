package ingestion

import (
	"errors"
	"testing"
	"time"

	"nba-matchup-lab/internal/domain"
)

func rec(teamID int64, day int, gameID string) *domain.GameRecord {
	return &domain.GameRecord{
		TeamID:   teamID,
		GameID:   gameID,
		GameDate: time.Date(2021, 10, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestSortGameRecords(t *testing.T) {
	// Intentionally unordered records
	records := []*domain.GameRecord{
		rec(2, 20, "g3"),
		rec(1, 21, "g4"),
		rec(1, 20, "g2"),
		rec(1, 20, "g1"),
		rec(2, 19, "g0"),
	}

	domain.SortGameRecords(records)

	expected := []struct {
		teamID int64
		day    int
		gameID string
	}{
		{1, 20, "g1"},
		{1, 20, "g2"},
		{1, 21, "g4"},
		{2, 19, "g0"},
		{2, 20, "g3"},
	}

	for i, exp := range expected {
		r := records[i]
		if r.TeamID != exp.teamID || r.GameDate.Day() != exp.day || r.GameID != exp.gameID {
			t.Errorf("Index %d: got (%d, %d, %s), want (%d, %d, %s)",
				i, r.TeamID, r.GameDate.Day(), r.GameID, exp.teamID, exp.day, exp.gameID)
		}
	}

	if err := ValidateGameRecordOrdering(records); err != nil {
		t.Errorf("sorted records should validate: %v", err)
	}
}

func TestSortGameRecords_Empty(t *testing.T) {
	var records []*domain.GameRecord
	domain.SortGameRecords(records) // Should not panic
}

func TestValidateGameRecordOrdering_Invalid(t *testing.T) {
	records := []*domain.GameRecord{
		rec(1, 21, "g2"),
		rec(1, 20, "g1"),
	}
	if err := ValidateGameRecordOrdering(records); !errors.Is(err, ErrInvalidOrdering) {
		t.Errorf("Expected ErrInvalidOrdering, got %v", err)
	}
}

func TestValidateGameRecordOrdering_Duplicate(t *testing.T) {
	records := []*domain.GameRecord{
		rec(1, 20, "g1"),
		rec(1, 20, "g1"),
	}
	if err := ValidateGameRecordOrdering(records); !errors.Is(err, ErrInvalidOrdering) {
		t.Errorf("Expected ErrInvalidOrdering for duplicate, got %v", err)
	}
}
