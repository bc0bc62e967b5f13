package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/CreativeUnicorns/configstore"
	"github.com/go-chi/chi/v5"
)

// describeRequest is the editable metadata of a row. Key, id and timestamps
// are read-only, so unknown fields are rejected.
type describeRequest struct {
	Name *string `json:"name"`
	Desc *string `json:"desc"`
}

// handleListConfigs returns every stored row.
func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.List(r.Context())
	if err != nil {
		s.respondWithError(w, r, statusFor(err), "Failed to list configurations", err)
		return
	}
	if rows == nil {
		rows = []*configstore.ConfigModel{}
	}
	s.respondWithJSON(w, r, http.StatusOK, rows)
}

// handleGetConfig returns one row. ?cache=false reads persistence directly.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	key := configstore.StringKey(chi.URLParam(r, "key"))

	var opts []configstore.ReadOption
	if r.URL.Query().Get("cache") == "false" {
		opts = append(opts, configstore.WithoutCache())
	}

	row, err := s.store.Read(r.Context(), key, opts...)
	if err != nil {
		s.respondWithError(w, r, statusFor(err), "Failed to read configuration", err)
		return
	}
	if row == nil {
		s.respondWithError(w, r, http.StatusNotFound, "Configuration not found", nil)
		return
	}
	s.respondWithJSON(w, r, http.StatusOK, row)
}

// handlePutConfig stores the raw request body as the payload of key.
func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	key := configstore.StringKey(chi.URLParam(r, "key"))

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.respondWithError(w, r, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	ok, err := s.store.Save(r.Context(), key, string(body))
	if err != nil {
		s.respondWithError(w, r, statusFor(err), "Failed to save configuration", err)
		return
	}
	if !ok {
		s.respondWithError(w, r, http.StatusBadRequest, "Empty payload", nil)
		return
	}

	s.respondCurrent(w, r, key)
}

// handleDescribeConfig updates the display name and description of a row.
func (s *Server) handleDescribeConfig(w http.ResponseWriter, r *http.Request) {
	key := configstore.StringKey(chi.URLParam(r, "key"))

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req describeRequest
	if err := decoder.Decode(&req); err != nil {
		s.respondWithError(w, r, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	row, err := s.store.Read(r.Context(), key, configstore.WithoutCache())
	if err != nil {
		s.respondWithError(w, r, statusFor(err), "Failed to read configuration", err)
		return
	}
	if row == nil {
		s.respondWithError(w, r, http.StatusNotFound, "Configuration not found", nil)
		return
	}

	name, desc := row.Name, row.Desc
	if req.Name != nil {
		name = *req.Name
	}
	if req.Desc != nil {
		desc = *req.Desc
	}
	if err := s.store.Describe(r.Context(), key, name, desc); err != nil {
		s.respondWithError(w, r, statusFor(err), "Failed to update configuration", err)
		return
	}

	s.respondCurrent(w, r, key)
}

// respondCurrent answers a write with the row as persisted.
func (s *Server) respondCurrent(w http.ResponseWriter, r *http.Request, key configstore.Key) {
	row, err := s.store.Read(r.Context(), key, configstore.WithoutCache())
	if err != nil {
		s.respondWithError(w, r, statusFor(err), "Failed to read configuration", err)
		return
	}
	if row == nil {
		s.respondWithError(w, r, http.StatusNotFound, "Configuration not found", nil)
		return
	}
	s.respondWithJSON(w, r, http.StatusOK, row)
}
