// Package telegram is the bot frontend: send a product photo, get HS code
// candidates back.
package telegram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"hs-classifier/api/internal/hscodes"
	"hs-classifier/api/internal/store"
	"hs-classifier/api/internal/vision"
)

type Router struct {
	Bot        *tgbotapi.BotAPI
	Engines    *vision.Engines
	EngManager *vision.Manager
	Table      *hscodes.Table

	// Repo caches results per image hash; nil disables caching.
	Repo *store.ClassificationRepo
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	cid := upd.Message.Chat.ID

	if upd.Message.IsCommand() {
		r.handleCommand(cid, upd.Message)
		return
	}

	if len(upd.Message.Photo) > 0 {
		r.classifyPhoto(cid, *upd.Message)
		return
	}

	if doc := upd.Message.Document; doc != nil && strings.HasPrefix(doc.MimeType, "image/") {
		r.classifyDocument(cid, doc)
		return
	}

	r.send(cid, "Send me a product photo and I'll suggest HS codes for it. Commands: /start, /engine")
}

func (r *Router) handleCommand(cid int64, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		r.send(cid, "Send a product photo and I'll return Harmonized System code candidates with confidence and reasoning.\nCommands: /engine")
	case "engine":
		r.handleEngineCommand(cid, msg.Text)
	default:
		r.send(cid, "Unknown command")
	}
}

// handleEngineCommand switches the vision engine for this chat.
// Formats: /engine watsonx | /engine gemini [model] | /engine gpt [model]
func (r *Router) handleEngineCommand(cid int64, cmd string) {
	args := strings.Fields(strings.TrimSpace(strings.TrimPrefix(cmd, "/engine")))
	if len(args) == 0 {
		cur := r.EngManager.Get(cid)
		r.send(cid, "Current engine: "+cur.Name()+" ("+cur.GetModel()+")\nUsage:\n/engine watsonx\n/engine gemini [model]\n/engine gpt [model]")
		return
	}
	name := strings.ToLower(args[0])
	var modelArg string
	if len(args) > 1 {
		modelArg = strings.TrimSpace(args[1])
	}

	eng, err := r.Engines.GetEngine(name)
	if err != nil {
		r.send(cid, "Unknown engine. Available: watsonx | gemini | gpt")
		return
	}
	if modelArg != "" {
		// A model override only applies to this chat; the shared engine must
		// keep serving everyone else with its configured model.
		if wm, ok := eng.(interface{ WithModel(string) vision.Engine }); ok {
			eng = wm.WithModel(modelArg)
		}
	}
	r.EngManager.Set(cid, eng)
	r.send(cid, "Engine set: "+eng.Name()+" ("+eng.GetModel()+")")
}

func (r *Router) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	_, _ = r.Bot.Send(msg)
}

func (r *Router) sendError(chatID int64, err error) {
	r.send(chatID, fmt.Sprintf("Classification error: %v", err))
}

// formatResult renders a classification for chat, capped under the Telegram
// message limit.
func formatResult(res vision.ClassificationResult) string {
	if res.NotInDocument && len(res.Classifications) == 0 {
		if res.Reason != "" {
			return "Not in the reference document: " + res.Reason
		}
		return "The product is not covered by the HS reference document."
	}

	var b strings.Builder
	b.WriteString("HS code candidates:\n")
	for i, c := range res.Classifications {
		code := c.HSCode
		if c.StatSuffix != "" {
			code += "." + c.StatSuffix
		}
		fmt.Fprintf(&b, "\n%d. %s (%.0f%%)\n%s\n", i+1, code, c.Confidence, c.ArticleDescription)
		if reason := strings.TrimSpace(c.Reasoning); reason != "" {
			b.WriteString(reason + "\n")
		}
	}
	out := b.String()
	if len(out) > 3900 {
		cut := 3900
		// Back off to a rune boundary so the cut never splits a multibyte
		// character.
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = out[:cut] + "…"
	}
	return out
}
