package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/visapath/visapath-cli/api/schemas"
)

func TestBonus(t *testing.T) {
	assert.Equal(t, 0, Bonus(schemas.Visa189))
	assert.Equal(t, 5, Bonus(schemas.Visa190))
	assert.Equal(t, 15, Bonus(schemas.Visa491))
	assert.Equal(t, 0, Bonus("888"))
}

func TestVisaStatus(t *testing.T) {
	cases := []struct {
		name  string
		visa  schemas.VisaCode
		score int
		want  schemas.Status
	}{
		{"189 at threshold", schemas.Visa189, 65, schemas.StatusOK},
		{"189 in warn band", schemas.Visa189, 55, schemas.StatusWarn},
		{"189 just below warn band", schemas.Visa189, 54, schemas.StatusFail},
		{"190 bonus lifts 60 to ok", schemas.Visa190, 60, schemas.StatusOK},
		{"190 bonus lifts 50 to warn", schemas.Visa190, 50, schemas.StatusWarn},
		{"491 bonus lifts 50 to ok", schemas.Visa491, 50, schemas.StatusOK},
		{"491 bonus lifts 40 to warn", schemas.Visa491, 40, schemas.StatusWarn},
		{"491 still failing at 39", schemas.Visa491, 39, schemas.StatusFail},
		{"zero score fails everywhere", schemas.Visa491, 0, schemas.StatusFail},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, VisaStatus(tc.visa, tc.score))
		})
	}

	t.Run("status is monotone in score", func(t *testing.T) {
		for _, visa := range schemas.AllVisas {
			prev := VisaStatus(visa, 0)
			for score := 1; score <= 100; score++ {
				cur := VisaStatus(visa, score)
				assert.GreaterOrEqual(t, cur.Rank(), prev.Rank(),
					"visa %s dropped from %s to %s at score %d", visa, prev, cur, score)
				prev = cur
			}
		}
	})
}

func TestEligibleVisas(t *testing.T) {
	t.Run("membership follows the occupation listing in canonical order", func(t *testing.T) {
		info := schemas.OccupationInfo{VisaCodes: []schemas.VisaCode{schemas.Visa491, schemas.Visa189}}
		assert.Equal(t, []schemas.VisaCode{schemas.Visa189, schemas.Visa491}, EligibleVisas(info))
	})

	t.Run("empty listing yields no visas", func(t *testing.T) {
		assert.Empty(t, EligibleVisas(schemas.OccupationInfo{}))
	})
}
