package api

import (
	"encoding/json"
	"net/http"
	"reflect"

	"github.com/CreativeUnicorns/configstore"
	"github.com/go-chi/chi/v5"
)

// formResponse describes a form and, when requested, its current value.
type formResponse struct {
	Path  string `json:"path"`
	Key   string `json:"key"`
	Label string `json:"label"`
	Value any    `json:"value,omitempty"`
}

func newFormResponse(path string, f Form, value any) formResponse {
	return formResponse{Path: path, Key: f.Key.String(), Label: f.Label, Value: value}
}

// handleListForms lists the registered forms in registration order.
func (s *Server) handleListForms(w http.ResponseWriter, r *http.Request) {
	out := make([]formResponse, 0, len(s.order))
	for _, path := range s.order {
		out = append(out, newFormResponse(path, s.forms[path], nil))
	}
	s.respondWithJSON(w, r, http.StatusOK, out)
}

// handleGetForm returns the current value of a form, read past the cache.
// A form with no stored row has no value.
func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "path")
	form, ok := s.forms[path]
	if !ok {
		s.respondWithError(w, r, http.StatusNotFound, "Form not found", nil)
		return
	}

	value, err := s.store.Get(r.Context(), form.Key, configstore.WithoutCache())
	if err != nil {
		s.respondWithError(w, r, statusFor(err), "Failed to read form value", err)
		return
	}
	s.respondWithJSON(w, r, http.StatusOK, newFormResponse(path, form, value))
}

// handleSubmitForm validates the body against the form's schema type and stores it.
func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "path")
	form, ok := s.forms[path]
	if !ok {
		s.respondWithError(w, r, http.StatusNotFound, "Form not found", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	value := reflect.New(form.Key.Type()).Interface()
	if err := decoder.Decode(value); err != nil {
		s.respondWithError(w, r, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	if err := s.store.SetValue(r.Context(), value); err != nil {
		s.respondWithError(w, r, statusFor(err), "Failed to save form", err)
		return
	}

	s.logger.Info("Form saved", "form", path, "key", form.Key.String())
	s.respondWithJSON(w, r, http.StatusOK, newFormResponse(path, form, value))
}
