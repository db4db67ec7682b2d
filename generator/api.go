package generator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/alovak/cardgen-playground/generator/models"
	"github.com/alovak/cardgen-playground/internal/export"
)

// API is a HTTP API for the generator service
type API struct {
	generator *Service
}

func NewAPI(generator *Service) *API {
	return &API{
		generator: generator,
	}
}

func (a *API) AppendRoutes(r chi.Router) {
	r.Post("/generate", a.generate)
	r.Post("/verify", a.verify)
	r.Get("/bins/{prefix}", a.lookupBIN)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", a.createSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Delete("/", a.deleteSession)
			r.Get("/cards", a.listCards)
			r.Post("/cards", a.saveCards)
			r.Delete("/cards", a.clearCards)
			r.Get("/cards/download", a.downloadCards)
			r.Get("/stats", a.stats)
		})
	})
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: err.Error()})
	case errors.Is(err, ErrInvalidInput), errors.Is(err, export.ErrUnknownFormat):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid_input", Message: err.Error()})
	case errors.Is(err, ErrNothingGenerated):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "nothing_generated", Message: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal", Message: err.Error()})
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// writeAttachment renders records in format as a file download.
func writeAttachment(w http.ResponseWriter, format export.Format, prefix string, records []models.Record) {
	var buf bytes.Buffer
	if err := export.Write(&buf, format, records); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(prefix, format, time.Now())))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (a *API) generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var format export.Format
	if f := r.URL.Query().Get("format"); f != "" {
		var err error
		if format, err = export.ParseFormat(f); err != nil {
			writeError(w, err)
			return
		}
	}

	batch, err := a.generator.GenerateBatch(req)
	if err != nil {
		writeError(w, err)
		return
	}

	if format != "" {
		writeAttachment(w, format, "cards", batch.Records)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (a *API) verify(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.VerifyResponse{
		Number: req.Number,
		Valid:  a.generator.Verify(req.Number),
	})
}

func (a *API) lookupBIN(w http.ResponseWriter, r *http.Request) {
	res, err := a.generator.LookupBIN(r.Context(), chi.URLParam(r, "prefix"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *API) createSession(w http.ResponseWriter, r *http.Request) {
	sess := a.generator.CreateSession()
	writeJSON(w, http.StatusCreated, struct {
		ID        string    `json:"id"`
		CreatedAt time.Time `json:"created_at"`
	}{sess.ID, sess.CreatedAt})
}

func (a *API) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := a.generator.DeleteSession(chi.URLParam(r, "sessionID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) listCards(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, fmt.Errorf("%w: limit must be a number", ErrInvalidInput))
			return
		}
		limit = v
	}
	cards, total, err := a.generator.ListSaved(chi.URLParam(r, "sessionID"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Cards []*models.SavedCard `json:"cards"`
		Total int                 `json:"total"`
	}{cards, total})
}

func (a *API) saveCards(w http.ResponseWriter, r *http.Request) {
	var req models.SaveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, fmt.Errorf("%w: %v", ErrInvalidInput, err))
		return
	}
	saved, err := a.generator.SaveLines(chi.URLParam(r, "sessionID"), req.Lines)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Saved int `json:"saved"`
	}{len(saved)})
}

func (a *API) clearCards(w http.ResponseWriter, r *http.Request) {
	if err := a.generator.ClearSaved(chi.URLParam(r, "sessionID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) downloadCards(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, err)
		return
	}
	records, err := a.generator.SavedRecords(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeAttachment(w, format, "all_cards", records)
}

func (a *API) stats(w http.ResponseWriter, r *http.Request) {
	st, err := a.generator.Stats(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
