// Package idcard synthesizes 18-digit resident identity numbers that pass
// the standard weighted mod-11 checksum. Only syntactic validity matters
// here; the numbers are fed to a console program's input validation.
package idcard

import (
	"math/rand"
	"time"
)

// weights is the positional weight table for the first 17 digits.
var weights = [17]int{7, 9, 10, 5, 8, 4, 2, 1, 6, 3, 7, 9, 10, 5, 8, 4, 2}

// checkCodes maps (weighted sum mod 11) to the check character.
// Remainder 2 maps to 'X' per the standard.
var checkCodes = [11]byte{'1', '0', 'X', '9', '8', '7', '6', '5', '4', '3', '2'}

// regionCodes is the fixed pool of 6-digit administrative division codes.
var regionCodes = []string{"110101", "310104", "440103", "440104"}

const (
	minAgeYears = 18
	maxAgeYears = 60
)

// Generator produces identity numbers. The zero value is not usable;
// construct with New.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

// New returns a Generator seeded from src. A nil now uses time.Now.
func New(src rand.Source, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{rng: rand.New(src), now: now}
}

// Generate returns an 18-character identity number: region(6) +
// birthdate(8) + sequence(3) + check(1). The encoded birthdate places the
// holder's age in [18,60) at generation time.
func (g *Generator) Generate() string {
	buf := make([]byte, 0, 18)
	buf = append(buf, regionCodes[g.rng.Intn(len(regionCodes))]...)
	buf = append(buf, g.birthdate()...)
	seq := g.rng.Intn(1000)
	buf = append(buf, byte('0'+seq/100), byte('0'+seq/10%10), byte('0'+seq%10))
	buf = append(buf, CheckCode(string(buf)))
	return string(buf)
}

// birthdate picks a YYYYMMDD uniformly over years [now-60y, now-18y].
// Day is capped at 28 so every month is valid.
func (g *Generator) birthdate() string {
	now := g.now()
	maxYear := now.AddDate(0, 0, -minAgeYears*365).Year()
	minYear := now.AddDate(0, 0, -maxAgeYears*365).Year()
	year := minYear + g.rng.Intn(maxYear-minYear+1)
	month := 1 + g.rng.Intn(12)
	day := 1 + g.rng.Intn(28)
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Format("20060102")
}

// CheckCode computes the check character for the first 17 digits.
// The input must be at least 17 bytes of ASCII digits.
func CheckCode(id17 string) byte {
	sum := 0
	for i := 0; i < 17; i++ {
		sum += int(id17[i]-'0') * weights[i]
	}
	return checkCodes[sum%11]
}

// Valid reports whether id is 18 characters whose check character matches
// its first 17 digits.
func Valid(id string) bool {
	if len(id) != 18 {
		return false
	}
	for i := 0; i < 17; i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return id[17] == CheckCode(id)
}

// Birthdate extracts the encoded birthdate. It assumes a Valid id.
func Birthdate(id string) (time.Time, error) {
	return time.Parse("20060102", id[6:14])
}
