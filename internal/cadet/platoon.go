package cadet

import (
	"strings"
	"time"

	cadeterrors "platoon-pulse/internal/cadet/errors"
)

type ageBand struct {
	min, max int
}

// Bands are inclusive and overlap at 14.
var platoonBands = map[string]ageBand{
	PlatoonJunior: {min: 12, max: 14},
	PlatoonSenior: {min: 14, max: 20},
}

func NormalizePlatoon(p string) (string, error) {
	p = strings.ToUpper(strings.TrimSpace(p))
	if _, ok := platoonBands[p]; !ok {
		return "", cadeterrors.ErrInvalidPlatoon
	}
	return p, nil
}

// AgeOn returns completed years between dob and on.
func AgeOn(dob, on time.Time) int {
	age := on.Year() - dob.Year()
	if on.Month() < dob.Month() || (on.Month() == dob.Month() && on.Day() < dob.Day()) {
		age--
	}
	return age
}

func ValidatePlatoonAge(platoon string, dob, on time.Time) error {
	band, ok := platoonBands[platoon]
	if !ok {
		return cadeterrors.ErrInvalidPlatoon
	}
	age := AgeOn(dob, on)
	if age < band.min || age > band.max {
		return cadeterrors.ErrPlatoonAgeMismatch
	}
	return nil
}
