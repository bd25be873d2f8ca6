// internal/handler/flash.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
)

const flashSessionName = "taskfolio_flash"

// Flash kinds
const (
	flashError   = "error"
	flashSuccess = "success"
)

// Flash is a transient notification shown once on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

// FlashStore keeps one-shot notifications in a short-lived cookie session so
// they survive the redirect after a mutation.
type FlashStore struct {
	store *sessions.CookieStore
}

func NewFlashStore(store *sessions.CookieStore) *FlashStore {
	return &FlashStore{store: store}
}

// Add queues a notification for the next page render.
func (f *FlashStore) Add(w http.ResponseWriter, r *http.Request, kind, message string) {
	session, _ := f.store.Get(r, flashSessionName)
	session.AddFlash(message, kind)
	if err := session.Save(r, w); err != nil {
		slog.Error("flash_save_failed", "error", err)
	}
}

// Pop drains every queued notification.
func (f *FlashStore) Pop(w http.ResponseWriter, r *http.Request) []Flash {
	session, _ := f.store.Get(r, flashSessionName)

	var flashes []Flash
	for _, kind := range []string{flashError, flashSuccess} {
		for _, value := range session.Flashes(kind) {
			if message, ok := value.(string); ok {
				flashes = append(flashes, Flash{Kind: kind, Message: message})
			}
		}
	}

	if len(flashes) > 0 {
		if err := session.Save(r, w); err != nil {
			slog.Error("flash_save_failed", "error", err)
		}
	}

	return flashes
}
