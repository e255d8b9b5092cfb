package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// StepType selects a step's renderer and validation rule
type StepType string

const (
	StepTypeDate             StepType = "date"
	StepTypeSelect           StepType = "select"
	StepTypeBoolean          StepType = "boolean"
	StepTypeText             StepType = "text"
	StepTypeNumber           StepType = "number"
	StepTypeDiseaseSelect    StepType = "disease-select"
	StepTypeMedicationSelect StepType = "medication-select"
	StepTypeSurgerySelect    StepType = "surgery-select"
)

// Step is one entry in the onboarding survey flow
type Step struct {
	Field    string
	Type     StepType
	TitleKey string
	Optional bool
	Options  []string
}

// Survey field names. List-typed fields hold comma-joined values.
const (
	FieldBirthDate     = "birthDate"
	FieldGender        = "gender"
	FieldDiseases      = "importantDiseases"
	FieldMedications   = "medications"
	FieldHadSurgery    = "hadSurgery"
	FieldSurgeries     = "surgeries"
	FieldSurgeryDetail = "surgeryDetail"
	FieldHeight        = "height"
	FieldWeight        = "weight"
	FieldBloodType     = "bloodType"
	FieldAllergies     = "allergies"
)

// OtherPrefix marks a free-form entry in a list-typed answer.
const OtherPrefix = "other:"

var requiredSteps = []Step{
	{Field: FieldBirthDate, Type: StepTypeDate, TitleKey: "onboarding.birth_date"},
	{Field: FieldGender, Type: StepTypeSelect, TitleKey: "onboarding.gender", Options: GenderOptions},
	{Field: FieldDiseases, Type: StepTypeDiseaseSelect, TitleKey: "onboarding.diseases", Options: DiseaseOptions},
	{Field: FieldMedications, Type: StepTypeMedicationSelect, TitleKey: "onboarding.medications", Options: MedicationOptions},
	{Field: FieldHadSurgery, Type: StepTypeBoolean, TitleKey: "onboarding.had_surgery"},
}

var surgerySteps = []Step{
	{Field: FieldSurgeries, Type: StepTypeSurgerySelect, TitleKey: "onboarding.surgeries", Options: SurgeryOptions},
	{Field: FieldSurgeryDetail, Type: StepTypeText, TitleKey: "onboarding.surgery_detail"},
}

var optionalSteps = []Step{
	{Field: FieldHeight, Type: StepTypeNumber, TitleKey: "onboarding.height", Optional: true},
	{Field: FieldWeight, Type: StepTypeNumber, TitleKey: "onboarding.weight", Optional: true},
	{Field: FieldBloodType, Type: StepTypeSelect, TitleKey: "onboarding.blood_type", Optional: true, Options: BloodTypeOptions},
	{Field: FieldAllergies, Type: StepTypeText, TitleKey: "onboarding.allergies", Optional: true},
}

// ComputeSteps builds the ordered step list for the given answers. The
// two surgery steps are inserted after the required block only while
// hadSurgery is answered true.
func ComputeSteps(answers map[string]string) []Step {
	steps := make([]Step, 0, len(requiredSteps)+len(surgerySteps)+len(optionalSteps))
	steps = append(steps, requiredSteps...)
	if answers[FieldHadSurgery] == "true" {
		steps = append(steps, surgerySteps...)
	}
	steps = append(steps, optionalSteps...)
	return steps
}

// ClampStep keeps an index inside [0, stepCount-1]. Needed when the step
// list shrinks under the cursor (hadSurgery flipped back to false).
func ClampStep(index, stepCount int) int {
	if index > stepCount-1 {
		return stepCount - 1
	}
	if index < 0 {
		return 0
	}
	return index
}

// isListStep reports whether a step's answer is a comma-joined list
func isListStep(t StepType) bool {
	switch t {
	case StepTypeDiseaseSelect, StepTypeMedicationSelect, StepTypeSurgerySelect:
		return true
	}
	return false
}

// FlowValidationError marks an answer or transition the flow's rules
// reject, as opposed to a storage failure.
type FlowValidationError struct {
	msg string
}

func (e *FlowValidationError) Error() string { return e.msg }

func flowErrorf(format string, args ...any) error {
	return &FlowValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsFlowValidationError reports whether err originates from a flow
// rule, including wrapped errors.
func IsFlowValidationError(err error) bool {
	var fe *FlowValidationError
	return errors.As(err, &fe)
}

// ValidateStep applies the step's validation rule to its answer. Optional
// steps always pass, boolean steps always pass once answered either way.
func ValidateStep(step Step, answers map[string]string) error {
	if step.Optional {
		return nil
	}

	value := answers[step.Field]

	switch step.Type {
	case StepTypeBoolean:
		if value != "true" && value != "false" {
			return flowErrorf("field %s requires a yes or no answer", step.Field)
		}
	case StepTypeDate:
		if value == "" {
			return flowErrorf("field %s is required", step.Field)
		}
		if _, err := time.Parse("2006-01-02", value); err != nil {
			return flowErrorf("field %s must be a valid date", step.Field)
		}
	default:
		if isListStep(step.Type) {
			if len(SplitList(value)) == 0 {
				return flowErrorf("field %s requires at least one selection", step.Field)
			}
			return nil
		}
		if strings.TrimSpace(value) == "" {
			return flowErrorf("field %s is required", step.Field)
		}
	}

	return nil
}

// SplitList parses a comma-joined list answer, dropping empty entries.
func SplitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	var entries []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			entries = append(entries, p)
		}
	}
	return entries
}

// JoinList serializes a list answer to its comma-joined form.
func JoinList(entries []string) string {
	return strings.Join(entries, ",")
}

// AddListEntry appends an entry if not already present.
func AddListEntry(value, entry string) string {
	entries := SplitList(value)
	for _, e := range entries {
		if e == entry {
			return value
		}
	}
	return JoinList(append(entries, entry))
}

// RemoveListEntry removes an entry, leaving the rest in order.
func RemoveListEntry(value, entry string) string {
	entries := SplitList(value)
	var kept []string
	for _, e := range entries {
		if e != entry {
			kept = append(kept, e)
		}
	}
	return JoinList(kept)
}

// OtherEntry builds the distinguished free-form entry for a list answer.
func OtherEntry(freeText string) string {
	return OtherPrefix + strings.TrimSpace(freeText)
}
