package usecase

import (
	"math"
	"strings"
)

// clientErrorMarkers are substrings of errors raised for caller mistakes
// rather than infrastructure failures.
var clientErrorMarkers = []string{"not found", "cannot", "not allowed", "already", "invalid"}

func isClientError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range clientErrorMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
