package features

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"nba-matchup-lab/internal/domain"
)

// DataVersion returns a sha256 over a canonical rendering of vectors.
// Identical tables in identical order always produce the same version.
func DataVersion(vectors []*domain.FeatureVector) string {
	h := sha256.New()
	var sb strings.Builder
	for _, fv := range vectors {
		sb.Reset()
		sb.WriteString(fv.SeasonID)
		sb.WriteByte('|')
		sb.WriteString(fv.GameID)
		sb.WriteByte('|')
		sb.WriteString(fv.GameDate.Format(domain.GameDateLayout))
		sb.WriteByte('|')
		sb.WriteString(strconv.FormatInt(fv.HomeTeamID, 10))
		sb.WriteByte('|')
		sb.WriteString(strconv.FormatInt(fv.VisitorTeamID, 10))
		sb.WriteByte('|')
		sb.WriteString(strconv.Itoa(fv.Label))
		for _, v := range fv.Metrics {
			sb.WriteByte('|')
			sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		sb.WriteByte('\n')
		h.Write([]byte(sb.String()))
	}
	return hex.EncodeToString(h.Sum(nil))
}
