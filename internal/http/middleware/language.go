package middleware

import (
	"net/http"

	"github.com/carebase/admin-api/internal/i18n"
)

// LanguageHeader lets clients pick a language without touching Accept-Language
const LanguageHeader = "X-Language"

// Language resolves the request language and stores it in the context.
// An explicit ?lang= or X-Language wins when it names a supported table;
// otherwise Accept-Language is negotiated against the catalog.
func Language(catalog *i18n.Catalog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := ""
			for _, candidate := range []string{r.URL.Query().Get("lang"), r.Header.Get(LanguageHeader)} {
				if candidate != "" && catalog.Supports(candidate) {
					lang = candidate
					break
				}
			}
			if lang == "" {
				lang = catalog.Match(r.Header.Get("Accept-Language"))
			}

			w.Header().Set("Content-Language", lang)
			next.ServeHTTP(w, r.WithContext(i18n.WithLanguage(r.Context(), lang)))
		})
	}
}
