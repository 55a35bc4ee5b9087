package handle

import (
	"encoding/json"
	"net/http"

	"hs-classifier/api/internal/hscodes"
	"hs-classifier/api/internal/store"
	"hs-classifier/api/internal/vision"
)

type Handle struct {
	engs  *vision.Engines
	table *hscodes.Table

	// Optional collaborators; nil/empty disables the feature.
	Repo      *store.ClassificationRepo
	UploadDir string
}

func New(engs *vision.Engines) *Handle {
	return &Handle{
		engs:  engs,
		table: hscodes.Default(),
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
