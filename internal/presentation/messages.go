package presentation

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

// Message keys understood by Mapper.Text
const (
	KeyListError         = "list_error_msg"
	KeySearchPlaceholder = "list_search_placeholder"
	KeyEmpty             = "list_empty_msg"
	KeyLoading           = "list_loading"
	KeyEndOfResults      = "list_end"
	KeyPhotographer      = "detail_photographer"
	KeyDate              = "detail_date"
	KeyImage             = "detail_image"
	KeyUnknown           = "detail_unknown"
)

// SupportedLanguages lists the languages with a full message set; the first
// entry is the fallback.
var SupportedLanguages = []language.Tag{
	language.English,
	language.German,
	language.Turkish,
}

var translations = map[language.Tag]map[string]string{
	language.English: {
		KeyListError:         "Could not load images. Check your connection and try again.",
		KeySearchPlaceholder: "Search NASA images",
		KeyEmpty:             "No images found.",
		KeyLoading:           "Loading images",
		KeyEndOfResults:      "End of results",
		KeyPhotographer:      "Photographer",
		KeyDate:              "Date",
		KeyImage:             "Image",
		KeyUnknown:           "unknown",
	},
	language.German: {
		KeyListError:         "Bilder konnten nicht geladen werden. Bitte Verbindung prüfen und erneut versuchen.",
		KeySearchPlaceholder: "NASA-Bilder durchsuchen",
		KeyEmpty:             "Keine Bilder gefunden.",
		KeyLoading:           "Bilder werden geladen",
		KeyEndOfResults:      "Ende der Ergebnisse",
		KeyPhotographer:      "Fotograf",
		KeyDate:              "Datum",
		KeyImage:             "Bild",
		KeyUnknown:           "unbekannt",
	},
	language.Turkish: {
		KeyListError:         "Görseller yüklenemedi. Bağlantınızı kontrol edip tekrar deneyin.",
		KeySearchPlaceholder: "NASA görsellerinde ara",
		KeyEmpty:             "Görsel bulunamadı.",
		KeyLoading:           "Görseller yükleniyor",
		KeyEndOfResults:      "Sonuçların sonu",
		KeyPhotographer:      "Fotoğrafçı",
		KeyDate:              "Tarih",
		KeyImage:             "Görsel",
		KeyUnknown:           "bilinmiyor",
	},
}

// monthNames are the full month names substituted for "January" in date layouts
var monthNames = map[language.Tag][12]string{
	language.English: {"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
	language.German: {"Januar", "Februar", "März", "April", "Mai", "Juni",
		"Juli", "August", "September", "Oktober", "November", "Dezember"},
	language.Turkish: {"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
		"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık"},
}

func monthKey(month time.Month) string {
	return "month_" + strings.ToLower(month.String())
}

var messages = buildCatalog()

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, entries := range translations {
		for key, text := range entries {
			// SetString only fails for malformed messages, which these are not
			_ = b.SetString(tag, key, text)
		}
	}
	for tag, names := range monthNames {
		for i, name := range names {
			_ = b.SetString(tag, monthKey(time.Month(i+1)), name)
		}
	}
	return b
}

var matcher = language.NewMatcher(SupportedLanguages)

// ParseLanguage resolves a config value or a POSIX locale such as
// "tr_TR.UTF-8" to one of the supported languages.
func ParseLanguage(value string) language.Tag {
	value = strings.TrimSpace(value)
	if i := strings.IndexAny(value, ".@"); i >= 0 {
		value = value[:i]
	}
	value = strings.ReplaceAll(value, "_", "-")
	if value == "" || value == "C" || value == "POSIX" {
		return language.English
	}

	tag, err := language.Parse(value)
	if err != nil {
		return language.English
	}
	_, index, _ := matcher.Match(tag)
	return SupportedLanguages[index]
}
