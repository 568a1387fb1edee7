package cadet_test

import (
	"testing"
	"time"

	"platoon-pulse/internal/cadet"
	cadeterrors "platoon-pulse/internal/cadet/errors"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAgeOn(t *testing.T) {
	dob := date(2010, time.June, 15)

	assert.Equal(t, 13, cadet.AgeOn(dob, date(2024, time.June, 14)))
	assert.Equal(t, 14, cadet.AgeOn(dob, date(2024, time.June, 15)))
	assert.Equal(t, 14, cadet.AgeOn(dob, date(2024, time.December, 1)))
}

func TestValidatePlatoonAge(t *testing.T) {
	on := date(2024, time.June, 15)

	cases := []struct {
		name    string
		platoon string
		age     int
		want    error
	}{
		{"junior lower bound", cadet.PlatoonJunior, 12, nil},
		{"junior upper bound", cadet.PlatoonJunior, 14, nil},
		{"junior too young", cadet.PlatoonJunior, 11, cadeterrors.ErrPlatoonAgeMismatch},
		{"junior too old", cadet.PlatoonJunior, 15, cadeterrors.ErrPlatoonAgeMismatch},
		{"senior lower bound", cadet.PlatoonSenior, 14, nil},
		{"senior upper bound", cadet.PlatoonSenior, 20, nil},
		{"senior too young", cadet.PlatoonSenior, 13, cadeterrors.ErrPlatoonAgeMismatch},
		{"senior too old", cadet.PlatoonSenior, 21, cadeterrors.ErrPlatoonAgeMismatch},
		{"unknown platoon", "MIDDLE", 14, cadeterrors.ErrInvalidPlatoon},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dob := on.AddDate(-tc.age, 0, 0)
			err := cadet.ValidatePlatoonAge(tc.platoon, dob, on)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNormalizePlatoon(t *testing.T) {
	p, err := cadet.NormalizePlatoon(" junior ")
	assert.NoError(t, err)
	assert.Equal(t, cadet.PlatoonJunior, p)

	_, err = cadet.NormalizePlatoon("")
	assert.ErrorIs(t, err, cadeterrors.ErrInvalidPlatoon)
}
