package domain

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	DefaultLanguage    = "ru"
	DefaultColorScheme = "indigo"
)

// ChatPrefs holds the per-chat presentation settings.
type ChatPrefs struct {
	Language      string `json:"language"`
	VoiceLanguage string `json:"voiceLanguage"`
	Theme         string `json:"theme"`
	ColorScheme   string `json:"colorScheme"`
}

func DefaultPrefs() ChatPrefs {
	return ChatPrefs{
		Language:      DefaultLanguage,
		VoiceLanguage: DefaultLanguage,
		Theme:         ThemeLight,
		ColorScheme:   DefaultColorScheme,
	}
}

// Language holds display metadata for a supported interface language.
type Language struct {
	Code string
	Name string
	Flag string
}

// SupportedLanguages lists the interface languages in display order.
var SupportedLanguages = []Language{
	{Code: "ru", Name: "Русский", Flag: "🇷🇺"},
	{Code: "en", Name: "English", Flag: "🇬🇧"},
	{Code: "es", Name: "Español", Flag: "🇪🇸"},
	{Code: "de", Name: "Deutsch", Flag: "🇩🇪"},
	{Code: "fr", Name: "Français", Flag: "🇫🇷"},
	{Code: "zh", Name: "中文", Flag: "🇨🇳"},
	{Code: "ja", Name: "日本語", Flag: "🇯🇵"},
	{Code: "ko", Name: "한국어", Flag: "🇰🇷"},
	{Code: "ar", Name: "العربية", Flag: "🇸🇦"},
	{Code: "pt", Name: "Português", Flag: "🇵🇹"},
}

func IsSupportedLanguage(code string) bool {
	for _, l := range SupportedLanguages {
		if l.Code == code {
			return true
		}
	}
	return false
}
