package domain

import (
	"fmt"
	"regexp"
)

// DefaultSeasons are the regular seasons fetched when none are configured.
var DefaultSeasons = []string{"2019-20", "2020-21", "2021-22", "2022-23", "2023-24", "2024-25"}

var seasonPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ValidateSeason checks a season identifier such as "2021-22".
func ValidateSeason(season string) error {
	if !seasonPattern.MatchString(season) {
		return fmt.Errorf("%w: %q", ErrInvalidSeason, season)
	}
	return nil
}
