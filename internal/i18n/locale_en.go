package i18n

var en = map[string]string{
	// Onboarding step titles
	"onboarding.birth_date":     "What is your date of birth?",
	"onboarding.gender":         "What is your gender?",
	"onboarding.diseases":       "Do you have any significant conditions?",
	"onboarding.medications":    "Do you take any regular medications?",
	"onboarding.had_surgery":    "Have you had surgery before?",
	"onboarding.surgeries":      "Which surgeries have you had?",
	"onboarding.surgery_detail": "Can you give details about your surgery?",
	"onboarding.height":         "What is your height in cm?",
	"onboarding.weight":         "What is your weight in kg?",
	"onboarding.blood_type":     "What is your blood type?",
	"onboarding.allergies":      "Do you have any known allergies?",

	// Validation
	"validation.required":    "This field is required",
	"validation.invalid":     "Invalid value",
	"validation.step_locked": "Complete the current step first",

	// Subscription
	"subscription.limit_reached": "You have reached your daily message limit. Upgrade to premium for unlimited messages.",
	"subscription.trial_ended":   "Your trial period has ended.",

	// Reminders
	"reminder.notification.title": "Medication Reminder",
	"reminder.notification.body":  "Time to take %s (%s)",

	// Mail
	"mail.forgot_password.subject": "Password Reset",
	"mail.forgot_password.body":    "Hello %s,\n\nUse the code below to reset your password:\n\n%s\n\nThis code is valid for 30 minutes.",

	// Errors
	"error.unauthorized":    "Session not found, please sign in again",
	"error.not_found":       "Record not found",
	"error.internal":        "Something went wrong, please try again",
	"error.invalid_login":   "Incorrect email or password",
	"error.email_taken":     "This email address is already registered",
	"error.guest_forbidden": "You need to create an account for this feature",
	"error.analysis_failed": "The image could not be analyzed, please try again",
}
