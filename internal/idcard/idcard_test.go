package idcard

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCodeKnownValues(t *testing.T) {
	// Recomputed by hand against the weighted mod-11 tables.
	cases := []struct {
		id17 string
		want byte
	}{
		{"11010119900307123", '3'}, // weighted sum 174, 174 mod 11 = 9
		{"44010319850101000", '8'}, // weighted sum 169, 169 mod 11 = 4
		{"31010420000229123", '6'}, // weighted sum 160, 160 mod 11 = 6
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CheckCode(c.id17), "id17=%s", c.id17)
	}
}

func TestGenerateChecksumHolds(t *testing.T) {
	g := New(rand.NewSource(1), nil)
	for i := 0; i < 10000; i++ {
		id := g.Generate()
		require.Len(t, id, 18)
		require.True(t, Valid(id), "generated id %q fails checksum", id)
	}
}

func TestGenerateBirthdateRange(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	g := New(rand.NewSource(42), func() time.Time { return now })

	minYear := now.AddDate(0, 0, -60*365).Year()
	maxYear := now.AddDate(0, 0, -18*365).Year()
	for i := 0; i < 2000; i++ {
		id := g.Generate()
		birth, err := Birthdate(id)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, birth.Year(), minYear, "id %q", id)
		assert.LessOrEqual(t, birth.Year(), maxYear, "id %q", id)
	}
}

func TestGenerateRegionCodes(t *testing.T) {
	g := New(rand.NewSource(7), nil)
	allowed := map[string]bool{"110101": true, "310104": true, "440103": true, "440104": true}
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		seen[g.Generate()[:6]] = true
	}
	for region := range seen {
		assert.True(t, allowed[region], "unexpected region code %s", region)
	}
	// With 1000 draws every region should appear.
	assert.Len(t, seen, len(allowed))
}

func TestValidRejects(t *testing.T) {
	assert.False(t, Valid(""))
	assert.False(t, Valid("11010119900307123"))   // 17 chars
	assert.False(t, Valid("1101011990030712345")) // 19 chars
	assert.False(t, Valid("1101X1199003071233")) // non-digit in body

	g := New(rand.NewSource(3), nil)
	id := g.Generate()
	// Flip the check character to something else.
	bad := id[:17] + "?"
	assert.False(t, Valid(bad))
}
