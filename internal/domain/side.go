package domain

import "strings"

// Matchup descriptor tokens.
const (
	HomeToken = "vs."
	AwayToken = "@"
)

// Side is the home or visitor perspective of a game.
type Side uint8

const (
	SideHome Side = iota
	SideVisitor
)

// Sides lists both perspectives, home first.
var Sides = []Side{SideHome, SideVisitor}

func (s Side) String() string {
	if s == SideVisitor {
		return "visitor"
	}
	return "home"
}

// ClassifyMatchup returns the side a matchup descriptor describes.
// ok is false when the descriptor carries neither token, or both.
func ClassifyMatchup(matchup string) (side Side, ok bool) {
	home := strings.Contains(matchup, HomeToken)
	away := strings.Contains(matchup, AwayToken)
	switch {
	case home && !away:
		return SideHome, true
	case away && !home:
		return SideVisitor, true
	default:
		return SideHome, false
	}
}
