package service

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSteps_Length(t *testing.T) {
	tests := []struct {
		name     string
		answers  map[string]string
		expected int
	}{
		{
			name:     "no answers",
			answers:  map[string]string{},
			expected: 9,
		},
		{
			name:     "had surgery false",
			answers:  map[string]string{FieldHadSurgery: "false"},
			expected: 9,
		},
		{
			name:     "had surgery true inserts two steps",
			answers:  map[string]string{FieldHadSurgery: "true"},
			expected: 11,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := ComputeSteps(tt.answers)
			assert.Len(t, steps, tt.expected)
		})
	}
}

func TestComputeSteps_SurgeryStepsFollowRequiredBlock(t *testing.T) {
	steps := ComputeSteps(map[string]string{FieldHadSurgery: "true"})

	require.Len(t, steps, 11)
	assert.Equal(t, FieldHadSurgery, steps[4].Field)
	assert.Equal(t, FieldSurgeries, steps[5].Field)
	assert.Equal(t, FieldSurgeryDetail, steps[6].Field)
	assert.Equal(t, FieldHeight, steps[7].Field)
	assert.True(t, steps[7].Optional)
}

func TestProperty_StepCountAndCursorBounds(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("step count is 9 or 11 and the clamped cursor stays in range", prop.ForAll(
		func(hadSurgery bool, cursor int) bool {
			answers := map[string]string{}
			if hadSurgery {
				answers[FieldHadSurgery] = "true"
			}

			steps := ComputeSteps(answers)
			expected := 9
			if hadSurgery {
				expected = 11
			}
			if len(steps) != expected {
				return false
			}

			clamped := ClampStep(cursor, len(steps))
			return clamped >= 0 && clamped <= len(steps)-1
		},
		gen.Bool(),
		gen.IntRange(-5, 30),
	))

	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties.TestingRun(t, params)
}

func TestClampStep_ShrinkingStepListClampsCursor(t *testing.T) {
	answers := map[string]string{FieldHadSurgery: "true"}
	steps := ComputeSteps(answers)
	require.Len(t, steps, 11)

	// Cursor sits on an inserted surgery step, then the answer flips back.
	cursor := 6
	answers[FieldHadSurgery] = "false"
	steps = ComputeSteps(answers)
	require.Len(t, steps, 9)

	cursor = ClampStep(cursor, len(steps))
	assert.Equal(t, 6, cursor)

	// Cursor past the new end clamps to the last valid index.
	cursor = ClampStep(10, len(steps))
	assert.Equal(t, 8, cursor)
}

func TestValidateStep_DiseaseSelection(t *testing.T) {
	diseaseStep := ComputeSteps(nil)[2]
	require.Equal(t, FieldDiseases, diseaseStep.Field)

	err := ValidateStep(diseaseStep, map[string]string{FieldDiseases: ""})
	assert.Error(t, err)

	err = ValidateStep(diseaseStep, map[string]string{FieldDiseases: "diabetes"})
	assert.NoError(t, err)
}

func TestValidateStep_Rules(t *testing.T) {
	steps := ComputeSteps(map[string]string{FieldHadSurgery: "true"})

	tests := []struct {
		name    string
		step    Step
		answers map[string]string
		wantErr bool
	}{
		{name: "missing birth date", step: steps[0], answers: map[string]string{}, wantErr: true},
		{name: "malformed birth date", step: steps[0], answers: map[string]string{FieldBirthDate: "15.03.1990"}, wantErr: true},
		{name: "valid birth date", step: steps[0], answers: map[string]string{FieldBirthDate: "1990-03-15"}, wantErr: false},
		{name: "missing gender", step: steps[1], answers: map[string]string{}, wantErr: true},
		{name: "boolean unanswered", step: steps[4], answers: map[string]string{}, wantErr: true},
		{name: "boolean false passes", step: steps[4], answers: map[string]string{FieldHadSurgery: "false"}, wantErr: false},
		{name: "empty surgeries when required", step: steps[5], answers: map[string]string{}, wantErr: true},
		{name: "optional height empty passes", step: steps[7], answers: map[string]string{}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStep(tt.step, tt.answers)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestListEntry_OtherRoundTrip(t *testing.T) {
	value := ""
	value = AddListEntry(value, "appendectomy")
	value = AddListEntry(value, OtherEntry("Appendectomy revision"))
	assert.Equal(t, "appendectomy,other:Appendectomy revision", value)

	// Adding the same entry twice does not duplicate it.
	value = AddListEntry(value, OtherEntry("Appendectomy revision"))
	assert.Equal(t, "appendectomy,other:Appendectomy revision", value)

	// Removing via the chip leaves no residue.
	value = RemoveListEntry(value, OtherEntry("Appendectomy revision"))
	assert.Equal(t, "appendectomy", value)
	assert.NotContains(t, value, OtherPrefix)
}

func TestSuggestedMedications(t *testing.T) {
	suggested := SuggestedMedications([]string{"diabetes", "hypertension"})
	assert.ElementsMatch(t, []string{"metformin", "insulin", "lisinopril", "amlodipine"}, suggested)

	assert.Empty(t, SuggestedMedications([]string{"anemia"}))
	assert.Empty(t, SuggestedMedications(nil))

	// Shared medications are not duplicated.
	suggested = SuggestedMedications([]string{"reflux", "ulcer"})
	assert.ElementsMatch(t, []string{"omeprazole", "pantoprazole"}, suggested)
}

func TestFilterOptions(t *testing.T) {
	assert.Equal(t, DiseaseOptions, FilterOptions(DiseaseOptions, ""))

	filtered := FilterOptions(DiseaseOptions, "DIAB")
	assert.Equal(t, []string{"diabetes"}, filtered)

	assert.Empty(t, FilterOptions(DiseaseOptions, "zzz"))
}
