package handle

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"hs-classifier/api/internal/classify"
	"hs-classifier/api/internal/config"
	"hs-classifier/api/internal/util"
	"hs-classifier/api/internal/vision"
)

// cacheMaxAge bounds how long a cached classification stays authoritative.
const cacheMaxAge = 24 * time.Hour

type classifyResponse struct {
	Success     bool                         `json:"success"`
	Data        *vision.ClassificationResult `json:"data,omitempty"`
	Error       string                       `json:"error,omitempty"`
	RawResponse string                       `json:"raw_response,omitempty"`
}

// Classify serves POST /api/classify-hs-code: multipart image in, structured
// classification out. Type and size validation happens before anything leaves
// the process.
func (h *Handle) Classify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, classifyResponse{Error: "POST only"})
		return
	}

	// Cap the whole request body; multipart framing overhead gets some slack.
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize+(64<<10))

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, classifyResponse{Error: "file exceeds 10MB limit"})
			return
		}
		writeJSON(w, http.StatusBadRequest, classifyResponse{Error: "missing file field: " + err.Error()})
		return
	}
	defer file.Close()

	if header.Size > config.MaxUploadSize {
		writeJSON(w, http.StatusRequestEntityTooLarge, classifyResponse{Error: "file exceeds 10MB limit"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, config.MaxUploadSize+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, classifyResponse{Error: "reading upload: " + err.Error()})
		return
	}
	if len(data) > config.MaxUploadSize {
		writeJSON(w, http.StatusRequestEntityTooLarge, classifyResponse{Error: "file exceeds 10MB limit"})
		return
	}
	if len(data) == 0 {
		writeJSON(w, http.StatusBadRequest, classifyResponse{Error: "empty file"})
		return
	}

	// Magic bytes win over the declared type; the declared type is only a
	// fallback for formats the sniffer does not know.
	mime := util.SniffImageMIME(data)
	if mime == "" {
		mime = header.Header.Get("Content-Type")
	}
	if !config.AllowedImageTypes[mime] {
		writeJSON(w, http.StatusBadRequest, classifyResponse{Error: "unsupported file type " + mime + " (allowed: JPEG, PNG, GIF, WebP)"})
		return
	}

	engine, err := h.engs.GetEngine(r.FormValue("engine"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, classifyResponse{Error: err.Error()})
		return
	}

	if h.UploadDir != "" {
		h.archiveUpload(data, mime)
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout(r))
	defer cancel()

	imageHash := util.SHA256Hex(data)
	if h.Repo != nil {
		if row, err := h.Repo.FindByHash(ctx, imageHash, engine.Name(), engine.GetModel(), cacheMaxAge); err == nil {
			writeJSON(w, http.StatusOK, classifyResponse{Success: true, Data: &row.Result, RawResponse: row.Result.RawResponse})
			return
		}
	}

	res, err := engine.Classify(ctx, data, mime)
	if err != nil {
		if errors.Is(err, vision.ErrBadReply) || errors.Is(err, vision.ErrNoJSON) {
			// The call itself worked; the reply is junk. Substitute the
			// fallback result instead of failing the request.
			res = classify.Fallback(res.RawResponse)
		} else {
			log.Printf("classify: engine %s: %v", engine.Name(), err)
			writeJSON(w, http.StatusBadGateway, classifyResponse{Error: "classification failed: " + err.Error()})
			return
		}
	}

	classify.Normalize(&res, h.table)

	if h.Repo != nil {
		if err := h.Repo.Upsert(ctx, imageHash, engine.Name(), engine.GetModel(), res); err != nil {
			log.Printf("classify: cache upsert: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, classifyResponse{Success: true, Data: &res, RawResponse: res.RawResponse})
}

// requestTimeout honors X-Request-Timeout (seconds) or ?timeoutSec, falling
// back to the configured default.
func requestTimeout(r *http.Request) time.Duration {
	if ts := r.Header.Get("X-Request-Timeout"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			return time.Duration(v) * time.Second
		}
	}
	if ts := r.URL.Query().Get("timeoutSec"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			return time.Duration(v) * time.Second
		}
	}
	return config.DefaultTimeoutSec * time.Second
}

// archiveUpload keeps a copy of the accepted image. Failures are logged, not
// surfaced: archival never blocks a classification.
func (h *Handle) archiveUpload(data []byte, mime string) {
	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		log.Printf("classify: upload dir: %v", err)
		return
	}
	name := uuid.NewString() + util.ExtFromMIME(mime)
	if err := os.WriteFile(filepath.Join(h.UploadDir, name), data, 0o644); err != nil {
		log.Printf("classify: archive upload: %v", err)
	}
}
