package tui

// Language is one selectable translation target.
type Language struct {
	Code string
	Name string
}

// Languages are the translation targets offered by the picker, in
// display order.
var Languages = []Language{
	{Code: "en", Name: "English"},
	{Code: "es", Name: "Spanish"},
	{Code: "fr", Name: "French"},
	{Code: "de", Name: "German"},
	{Code: "it", Name: "Italian"},
	{Code: "pt", Name: "Portuguese"},
	{Code: "zh", Name: "Chinese"},
	{Code: "ja", Name: "Japanese"},
	{Code: "ko", Name: "Korean"},
	{Code: "ar", Name: "Arabic"},
	{Code: "ru", Name: "Russian"},
	{Code: "hi", Name: "Hindi"},
}

func languageName(code string) string {
	for _, l := range Languages {
		if l.Code == code {
			return l.Name
		}
	}
	return code
}

func languageIndex(code string) int {
	for i, l := range Languages {
		if l.Code == code {
			return i
		}
	}
	return 0
}
