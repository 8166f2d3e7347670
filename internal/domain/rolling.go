package domain

import "fmt"

// RollingKey addresses the rolling mean of one statistic over a window.
type RollingKey struct {
	Stat   Stat
	Window int
}

// String renders the column name, e.g. "PTS_last10".
func (k RollingKey) String() string {
	return fmt.Sprintf("%s_last%d", k.Stat, k.Window)
}

// RollingStatRecord is a GameRecord extended with the rolling means entering the game.
type RollingStatRecord struct {
	Game    *GameRecord
	Rolling map[RollingKey]Value // missing when the team has no prior game
}

// RollingValue returns the rolling mean of stat over window.
func (r *RollingStatRecord) RollingValue(stat Stat, window int) Value {
	return r.Rolling[RollingKey{Stat: stat, Window: window}]
}
