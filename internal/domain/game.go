package domain

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// GameDateLayout is the provider's GAME_DATE format.
const GameDateLayout = "2006-01-02"

// Result markers reported by the provider.
const (
	ResultWin  = "W"
	ResultLoss = "L"
)

// StatLine holds one game's tracked statistics. A key that is present with a
// missing Value means the provider reported null; an absent key is a schema error.
type StatLine map[Stat]Value

// GameRecord is one team's box score for one game.
// Each game produces exactly two records, one per participating team.
type GameRecord struct {
	SeasonID         string    `json:"season_id" validate:"required"`
	GameDate         time.Time `json:"game_date" validate:"required"`
	GameID           string    `json:"game_id" validate:"required"`
	TeamID           int64     `json:"team_id" validate:"required"`
	TeamAbbreviation string    `json:"team_abbreviation" validate:"required"`
	Matchup          string    `json:"matchup" validate:"required"` // "BOS vs. NYK" (home) or "NYK @ BOS" (visitor)
	WL               string    `json:"wl"`                          // "W", "L" or anything else for unknown
	Stats            StatLine  `json:"stats"`
}

var validate = validator.New()

// Validate checks identifying fields and that every tracked statistic is present.
// Failures wrap ErrSchemaMismatch.
func (g *GameRecord) Validate() error {
	if g == nil {
		return fmt.Errorf("%w: nil game record", ErrSchemaMismatch)
	}
	if err := validate.Struct(g); err != nil {
		return fmt.Errorf("%w: game %s team %d: %v", ErrSchemaMismatch, g.GameID, g.TeamID, err)
	}
	for _, s := range AllStats {
		if _, ok := g.Stats[s]; !ok {
			return fmt.Errorf("%w: game %s team %d: missing stat %s", ErrSchemaMismatch, g.GameID, g.TeamID, s)
		}
	}
	return nil
}

// Stat returns the recorded value of s, missing if absent or null.
func (g *GameRecord) Stat(s Stat) Value {
	return g.Stats[s]
}

// Clone returns a deep copy.
func (g *GameRecord) Clone() *GameRecord {
	c := *g
	c.Stats = make(StatLine, len(g.Stats))
	for k, v := range g.Stats {
		c.Stats[k] = v
	}
	return &c
}
