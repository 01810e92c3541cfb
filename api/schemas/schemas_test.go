package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStatusRank(t *testing.T) {
	assert.Greater(t, StatusOK.Rank(), StatusWarn.Rank())
	assert.Greater(t, StatusWarn.Rank(), StatusFail.Rank())
	assert.Greater(t, StatusFail.Rank(), StatusInfo.Rank())
}

func TestEnglishLevelAtLeast(t *testing.T) {
	cases := []struct {
		name      string
		level     EnglishLevel
		required  EnglishLevel
		wantMet   bool
		wantKnown bool
	}{
		{"superior exceeds competent", EnglishSuperior, EnglishCompetent, true, true},
		{"equal levels meet", EnglishProficient, EnglishProficient, true, true},
		{"competent below superior", EnglishCompetent, EnglishSuperior, false, true},
		{"empty level is unknown", "", EnglishCompetent, false, false},
		{"unrecognized level is unknown", "Fluent", EnglishCompetent, false, false},
		{"unrecognized requirement is unknown", EnglishSuperior, "Native", false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			met, known := tc.level.AtLeast(tc.required)
			assert.Equal(t, tc.wantMet, met)
			assert.Equal(t, tc.wantKnown, known)
		})
	}
}

func TestOccupationRef(t *testing.T) {
	t.Run("key prefers the stable id", func(t *testing.T) {
		assert.Equal(t, "occ:se", OccupationRef{ID: "se", AnzscoCode: "261313"}.Key())
		assert.Equal(t, "anzsco:261313", OccupationRef{AnzscoCode: "261313"}.Key())
	})

	t.Run("zero detection", func(t *testing.T) {
		assert.True(t, OccupationRef{}.IsZero())
		assert.False(t, OccupationRef{ID: "se"}.IsZero())
	})

	t.Run("anzsco format validation", func(t *testing.T) {
		assert.True(t, OccupationRef{AnzscoCode: "261313"}.ValidAnzsco())
		assert.True(t, OccupationRef{}.ValidAnzsco(), "absent code is not invalid")
		assert.False(t, OccupationRef{AnzscoCode: "2613"}.ValidAnzsco())
		assert.False(t, OccupationRef{AnzscoCode: "abcdef"}.ValidAnzsco())
	})
}

func TestExtractAnzsco(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"261313", "261313"},
		{"ICT 261313 (Software Engineer)", "261313"},
		{"Software Engineer - 261313", "261313"},
		{"no code here", ""},
		{"12345", ""},
		{"1234567", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractAnzsco(tc.in), "input %q", tc.in)
	}
}

func TestValueJSON(t *testing.T) {
	t.Run("decodes each scalar shape", func(t *testing.T) {
		var r Rule
		require.NoError(t, json.Unmarshal([]byte(`{"field":"job_offer","op":"==","value":true}`), &r))
		assert.Equal(t, BoolValue(true), r.Value)

		require.NoError(t, json.Unmarshal([]byte(`{"field":"state_min_points","op":">=","value":65}`), &r))
		assert.Equal(t, NumberValue(65), r.Value)

		require.NoError(t, json.Unmarshal([]byte(`{"field":"english","op":">=","value":"Proficient"}`), &r))
		assert.Equal(t, TextValue("Proficient"), r.Value)

		require.NoError(t, json.Unmarshal([]byte(`{"field":"other_requirement","op":"info","value":null}`), &r))
		assert.Equal(t, Value{}, r.Value)
	})

	t.Run("rejects composite values", func(t *testing.T) {
		var r Rule
		err := json.Unmarshal([]byte(`{"field":"english","op":">=","value":["a"]}`), &r)
		assert.Error(t, err)
	})

	t.Run("round-trips whole numbers without exponent form", func(t *testing.T) {
		out, err := json.Marshal(NumberValue(65))
		require.NoError(t, err)
		assert.Equal(t, "65", string(out))
	})
}

func TestValueYAML(t *testing.T) {
	var rules []Rule
	src := `
- field: english
  op: ">="
  value: Competent
- field: study_in_state
  op: "=="
  value: true
- field: state_min_points
  op: ">="
  value: 65
`
	require.NoError(t, yaml.Unmarshal([]byte(src), &rules))
	require.Len(t, rules, 3)
	assert.Equal(t, TextValue("Competent"), rules[0].Value)
	assert.Equal(t, BoolValue(true), rules[1].Value)
	assert.Equal(t, NumberValue(65), rules[2].Value)
}

func TestKindOfField(t *testing.T) {
	assert.Equal(t, FieldEnglish, KindOfField("english"))
	assert.Equal(t, FieldBoolean, KindOfField("job_offer"))
	assert.Equal(t, FieldNumeric, KindOfField("state_min_points"))
	assert.Equal(t, FieldInfo, KindOfField("residency_requirement"))
	assert.Equal(t, FieldUnknown, KindOfField("made_up_field"))
}

func TestNodeKeys(t *testing.T) {
	assert.Equal(t, "visa-190", VisaNodeKey(Visa190))
	assert.Equal(t, "states:190", StatesContainerKey(Visa190))
	assert.Equal(t, "state:190:NSW", StateNodeKey(Visa190, "NSW"))
	assert.Equal(t, "pw:190:NSW:general", PathwayNodeKey(Visa190, "NSW", "general"))
	assert.Equal(t, "summary:pw:190:NSW:general", SummaryNodeKey(PathwayNodeKey(Visa190, "NSW", "general")))
}

func TestPathwayDisplayTitle(t *testing.T) {
	assert.Equal(t, "General", Pathway{ID: "g", Title: "General"}.DisplayTitle())
	assert.Equal(t, "g", Pathway{ID: "g"}.DisplayTitle())
}
