package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
)

// ComputeBuildRunID computes a deterministic build run id using SHA256.
// Formula: SHA256(season|window|epsilon|data_version)
// Returns hex-encoded hash (64 characters).
func ComputeBuildRunID(season string, window int, epsilon float64, dataVersion string) string {
	data := fmt.Sprintf("%s|%d|%s|%s",
		season,
		window,
		strconv.FormatFloat(epsilon, 'g', -1, 64),
		dataVersion,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
