package handler

import (
	"net/http"

	"github.com/carebase/admin-api/internal/domain"
	"github.com/carebase/admin-api/internal/i18n"
	"github.com/go-chi/chi/v5"
)

type I18nHandler struct {
	catalog *i18n.Catalog
}

func NewI18nHandler(catalog *i18n.Catalog) *I18nHandler {
	return &I18nHandler{catalog: catalog}
}

// Languages godoc
// @Summary List languages
// @Tags I18n
// @Produce json
// @Success 200 {array} domain.LanguageDTO
// @Router /i18n [get]
func (h *I18nHandler) Languages(w http.ResponseWriter, r *http.Request) {
	codes := h.catalog.Languages()
	out := make([]domain.LanguageDTO, len(codes))
	for i, code := range codes {
		out[i] = domain.LanguageDTO{Code: code, Default: code == h.catalog.Default()}
	}
	respondJSON(w, http.StatusOK, out)
}

// Table godoc
// @Summary Get translation table
// @Description Flat key to string map for one language
// @Tags I18n
// @Produce json
// @Param lang path string true "Language code"
// @Success 200 {object} map[string]string
// @Failure 404 {object} domain.APIError
// @Router /i18n/{lang} [get]
func (h *I18nHandler) Table(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	table, ok := h.catalog.Table(lang)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Unsupported language: "+lang)
		return
	}
	w.Header().Set("Content-Language", lang)
	respondJSON(w, http.StatusOK, table)
}
