package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"hs-classifier/api/internal/classify"
	"hs-classifier/api/internal/config"
	"hs-classifier/api/internal/util"
	"hs-classifier/api/internal/vision"
)

const classifyTimeout = 120 * time.Second

func (r *Router) classifyPhoto(cid int64, msg tgbotapi.Message) {
	// Largest rendition is last.
	ph := msg.Photo[len(msg.Photo)-1]
	r.classifyFileID(cid, ph.FileID)
}

func (r *Router) classifyDocument(cid int64, doc *tgbotapi.Document) {
	if doc.FileSize > config.MaxUploadSize {
		r.send(cid, "That file exceeds the 10MB limit.")
		return
	}
	r.classifyFileID(cid, doc.FileID)
}

func (r *Router) classifyFileID(cid int64, fileID string) {
	file, err := r.Bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		r.sendError(cid, err)
		return
	}
	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", r.Bot.Token, file.FilePath)
	img, err := download(url)
	if err != nil {
		r.sendError(cid, err)
		return
	}
	if len(img) > config.MaxUploadSize {
		r.send(cid, "That file exceeds the 10MB limit.")
		return
	}

	mime := util.SniffImageMIME(img)
	if !config.AllowedImageTypes[mime] {
		r.send(cid, "Unsupported image format. Send JPEG, PNG, GIF or WebP.")
		return
	}

	r.send(cid, "Got the photo, classifying… this usually takes 20-30 seconds.")

	ctx, cancel := context.WithTimeout(context.Background(), classifyTimeout)
	defer cancel()

	engine := r.EngManager.Get(cid)
	imageHash := util.SHA256Hex(img)

	if r.Repo != nil {
		if row, err := r.Repo.FindByHash(ctx, imageHash, engine.Name(), engine.GetModel(), 24*time.Hour); err == nil {
			r.send(cid, formatResult(row.Result))
			return
		}
	}

	res, err := engine.Classify(ctx, img, mime)
	if err != nil {
		if errors.Is(err, vision.ErrBadReply) || errors.Is(err, vision.ErrNoJSON) {
			res = classify.Fallback(res.RawResponse)
		} else {
			r.sendError(cid, err)
			return
		}
	}
	classify.Normalize(&res, r.Table)

	if r.Repo != nil {
		if err := r.Repo.Upsert(ctx, imageHash, engine.Name(), engine.GetModel(), res); err != nil {
			log.Printf("telegram: cache upsert: %v", err)
		}
	}

	r.send(cid, formatResult(res))
}

func download(url string) ([]byte, error) {
	resp, err := httpClient().Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(io.LimitReader(resp.Body, config.MaxUploadSize+1))
}

func httpClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}
