package main

import (
	"encoding/json"
	"net/http"

	"github.com/CreativeUnicorns/configstore"
	"github.com/CreativeUnicorns/configstore/api"
)

// SiteConfig is the public identity of the site.
type SiteConfig struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// SMTPConfig holds outgoing mail settings.
type SMTPConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func demoForms() []api.Form {
	return []api.Form{
		{Key: configstore.SchemaKey[SiteConfig](), Label: "Site"},
		{Key: configstore.SchemaKey[SMTPConfig](), Label: "SMTP"},
	}
}

type demoResponse struct {
	Site *SiteConfig `json:"site"`
	SMTP *SMTPConfig `json:"smtp"`
}

// handleDemoConfig returns both demo configurations through the typed getters.
// The SMTP password is never echoed.
func handleDemoConfig(store *configstore.Store, logger configstore.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		site, err := configstore.GetAs[SiteConfig](r.Context(), store)
		if err != nil {
			logger.Error("Failed to load site config", "error", err)
			http.Error(w, `{"error":{"message":"Failed to load site config"}}`, http.StatusInternalServerError)
			return
		}
		smtp, err := configstore.GetAs[SMTPConfig](r.Context(), store)
		if err != nil {
			logger.Error("Failed to load smtp config", "error", err)
			http.Error(w, `{"error":{"message":"Failed to load smtp config"}}`, http.StatusInternalServerError)
			return
		}
		if smtp != nil {
			smtp.Password = ""
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(demoResponse{Site: site, SMTP: smtp})
	}
}
