package i18n

var tr = map[string]string{
	// Onboarding step titles
	"onboarding.birth_date":      "Doğum tarihiniz nedir?",
	"onboarding.gender":          "Cinsiyetiniz nedir?",
	"onboarding.diseases":        "Önemli bir hastalığınız var mı?",
	"onboarding.medications":     "Düzenli kullandığınız ilaçlar var mı?",
	"onboarding.had_surgery":     "Daha önce ameliyat oldunuz mu?",
	"onboarding.surgeries":       "Hangi ameliyatları oldunuz?",
	"onboarding.surgery_detail":  "Ameliyatınız hakkında detay verebilir misiniz?",
	"onboarding.height":          "Boyunuz kaç cm?",
	"onboarding.weight":          "Kilonuz kaç kg?",
	"onboarding.blood_type":      "Kan grubunuz nedir?",
	"onboarding.allergies":       "Bilinen alerjiniz var mı?",

	// Validation
	"validation.required":    "Bu alan zorunludur",
	"validation.invalid":     "Geçersiz değer",
	"validation.step_locked": "Önce mevcut adımı tamamlayın",

	// Subscription
	"subscription.limit_reached": "Günlük mesaj limitinize ulaştınız. Premium'a geçerek sınırsız mesaj gönderebilirsiniz.",
	"subscription.trial_ended":   "Deneme süreniz sona erdi.",

	// Reminders
	"reminder.notification.title": "İlaç Hatırlatıcı",
	"reminder.notification.body":  "%s alma zamanı (%s)",

	// Mail
	"mail.forgot_password.subject": "Şifre Sıfırlama",
	"mail.forgot_password.body":    "Merhaba %s,\n\nŞifrenizi sıfırlamak için aşağıdaki kodu kullanın:\n\n%s\n\nBu kod 30 dakika geçerlidir.",

	// Errors
	"error.unauthorized":      "Oturum bulunamadı, lütfen tekrar giriş yapın",
	"error.not_found":         "Kayıt bulunamadı",
	"error.internal":          "Bir hata oluştu, lütfen tekrar deneyin",
	"error.invalid_login":     "E-posta veya şifre hatalı",
	"error.email_taken":       "Bu e-posta adresi zaten kayıtlı",
	"error.guest_forbidden":   "Bu özellik için hesap oluşturmanız gerekir",
	"error.analysis_failed":   "Görsel analiz edilemedi, lütfen tekrar deneyin",
}
