package service

import (
	"sort"
	"strings"
)

// Specialties are the named assistants a conversation can be scoped to.
var Specialties = []string{
	"general",
	"cardiology",
	"dermatology",
	"endocrinology",
	"gastroenterology",
	"neurology",
	"orthopedics",
	"pediatrics",
	"psychiatry",
	"pulmonology",
	"urology",
}

// DiseaseOptions is the selectable disease dictionary. Entries are stable
// keys; display strings come from the locale tables.
var DiseaseOptions = []string{
	"diabetes",
	"hypertension",
	"asthma",
	"copd",
	"heart_disease",
	"kidney_disease",
	"liver_disease",
	"thyroid_disorder",
	"cancer",
	"epilepsy",
	"depression",
	"anxiety",
	"rheumatoid_arthritis",
	"osteoporosis",
	"migraine",
	"anemia",
	"reflux",
	"ulcer",
}

// MedicationOptions is the selectable medication dictionary.
var MedicationOptions = []string{
	"metformin",
	"insulin",
	"lisinopril",
	"amlodipine",
	"atorvastatin",
	"salbutamol",
	"budesonide",
	"levothyroxine",
	"aspirin",
	"clopidogrel",
	"warfarin",
	"omeprazole",
	"pantoprazole",
	"sertraline",
	"escitalopram",
	"ibuprofen",
	"paracetamol",
	"methotrexate",
}

// SurgeryOptions is the selectable surgery dictionary.
var SurgeryOptions = []string{
	"appendectomy",
	"cholecystectomy",
	"hernia_repair",
	"cesarean_section",
	"tonsillectomy",
	"knee_replacement",
	"hip_replacement",
	"bypass_surgery",
	"angioplasty",
	"cataract_surgery",
	"thyroidectomy",
	"gastric_surgery",
}

// BloodTypeOptions are the selectable blood types.
var BloodTypeOptions = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "0+", "0-"}

// GenderOptions are the selectable gender values.
var GenderOptions = []string{"female", "male", "other", "prefer_not_to_say"}

// diseaseMedications maps a disease key to medications commonly used for
// it. The medication step flags these as suggestions, never requirements.
var diseaseMedications = map[string][]string{
	"diabetes":             {"metformin", "insulin"},
	"hypertension":         {"lisinopril", "amlodipine"},
	"asthma":               {"salbutamol", "budesonide"},
	"copd":                 {"salbutamol", "budesonide"},
	"heart_disease":        {"aspirin", "clopidogrel", "atorvastatin"},
	"thyroid_disorder":     {"levothyroxine"},
	"reflux":               {"omeprazole", "pantoprazole"},
	"ulcer":                {"omeprazole", "pantoprazole"},
	"depression":           {"sertraline", "escitalopram"},
	"anxiety":              {"sertraline", "escitalopram"},
	"rheumatoid_arthritis": {"methotrexate", "ibuprofen"},
	"migraine":             {"ibuprofen", "paracetamol"},
}

// SuggestedMedications returns the deduplicated, sorted medication keys
// suggested for the given selected diseases.
func SuggestedMedications(selectedDiseases []string) []string {
	seen := make(map[string]bool)
	var suggested []string
	for _, disease := range selectedDiseases {
		for _, med := range diseaseMedications[disease] {
			if !seen[med] {
				seen[med] = true
				suggested = append(suggested, med)
			}
		}
	}
	sort.Strings(suggested)
	return suggested
}

// FilterOptions returns the options whose key contains the search text,
// case insensitive. Empty search returns all options.
func FilterOptions(options []string, search string) []string {
	if search == "" {
		return options
	}
	needle := strings.ToLower(search)
	var filtered []string
	for _, opt := range options {
		if strings.Contains(strings.ToLower(opt), needle) {
			filtered = append(filtered, opt)
		}
	}
	return filtered
}

// ValidSpecialty reports whether the given specialty is a known assistant.
// Empty defaults to the general assistant.
func ValidSpecialty(specialty string) bool {
	if specialty == "" {
		return true
	}
	for _, s := range Specialties {
		if s == specialty {
			return true
		}
	}
	return false
}

var specialtyDescriptions = map[string]string{
	"general":          "general medicine",
	"cardiology":       "cardiology and heart health",
	"dermatology":      "dermatology and skin conditions",
	"endocrinology":    "endocrinology, diabetes and hormonal disorders",
	"gastroenterology": "gastroenterology and digestive health",
	"neurology":        "neurology and the nervous system",
	"orthopedics":      "orthopedics, bones and joints",
	"pediatrics":       "pediatrics and child health",
	"psychiatry":       "psychiatry and mental health",
	"pulmonology":      "pulmonology and respiratory health",
	"urology":          "urology and urinary health",
}

func specialtyDescription(specialty string) string {
	if desc, ok := specialtyDescriptions[specialty]; ok {
		return desc
	}
	return specialtyDescriptions["general"]
}
