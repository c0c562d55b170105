package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/evcraddock/price-estimator/internal/options"
	"github.com/evcraddock/price-estimator/internal/predict"
)

// pageData is what the templates see. Exactly one of Pending, Result and
// Error is set, mirroring the form's state.
type pageData struct {
	Input      predict.FormInput
	Options    options.Options
	Phase      predict.Phase
	Pending    bool
	Result     *predict.Result
	Error      string
	FieldError string
	Bounds     bounds
}

type bounds struct {
	MinBedrooms, MaxBedrooms         int
	MinPropertySize, MaxPropertySize int
}

func newPageData(form *predict.Controller) pageData {
	data := pageData{
		Input:   form.Input(),
		Options: form.Options(),
		Bounds: bounds{
			MinBedrooms:     predict.MinBedrooms,
			MaxBedrooms:     predict.MaxBedrooms,
			MinPropertySize: predict.MinPropertySize,
			MaxPropertySize: predict.MaxPropertySize,
		},
	}

	state := form.State()
	data.Phase = state.Phase()
	switch s := state.(type) {
	case predict.Pending:
		data.Pending = true
	case predict.Succeeded:
		result := s.Result
		data.Result = &result
	case predict.Failed:
		data.Error = s.Message
	}
	return data
}

// handleIndex renders the form page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	form := s.sessions.Get(w, r)
	s.render(w, "index.html", newPageData(form))
}

// handleField applies field edits posted by HTMX change triggers.
func (s *Server) handleField(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	form := s.sessions.Get(w, r)
	if err := applyFields(form, r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handlePredict applies the posted fields and submits the form.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	form := s.sessions.Get(w, r)
	isHTMX := r.Header.Get("HX-Request") == "true"

	if err := applyFields(form, r); err != nil {
		data := newPageData(form)
		data.FieldError = err.Error()
		w.WriteHeader(http.StatusBadRequest)
		if isHTMX {
			s.render(w, "result", data)
			return
		}
		s.render(w, "index.html", data)
		return
	}

	if _, err := form.Submit(r.Context()); err != nil {
		if !errors.Is(err, predict.ErrSubmitInFlight) {
			http.Error(w, fmt.Sprintf("Error submitting: %v", err), http.StatusInternalServerError)
			return
		}
		slog.Info("duplicate submission dropped")
		w.WriteHeader(http.StatusConflict)
		if isHTMX {
			s.render(w, "result", newPageData(form))
			return
		}
		s.render(w, "index.html", newPageData(form))
		return
	}

	if isHTMX {
		s.render(w, "result", newPageData(form))
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// applyFields sets every form field present in the request. A rejected
// value leaves the form unchanged.
func applyFields(form *predict.Controller, r *http.Request) error {
	values := make(map[predict.Field]string)
	for _, f := range predict.Fields {
		if r.PostForm.Has(string(f)) {
			values[f] = r.PostForm.Get(string(f))
		}
	}
	return form.SetFields(values)
}

// handleHealth reports that the web UI is up.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// render executes a named template.
func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, fmt.Sprintf("Error rendering template: %v", err), http.StatusInternalServerError)
	}
}
