package helpers

import (
	"encoding/base64"
	"net/http"
	"strings"
)

const noticeCookie = "notice"

// Notice levels shown by the pages.
const (
	NoticeSuccess = "success"
	NoticeWarning = "warning"
	NoticeDanger  = "danger"
)

// Notice is a one-shot message carried across a redirect.
type Notice struct {
	Level   string
	Message string
}

// SetNotice stores a notice for the next page render.
func SetNotice(w http.ResponseWriter, level, message string) {
	value := base64.RawURLEncoding.EncodeToString([]byte(level + "|" + message))
	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopNotice returns the pending notice, if any, and clears it.
func PopNotice(w http.ResponseWriter, r *http.Request) *Notice {
	c, err := r.Cookie(noticeCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: noticeCookie, Value: "", Path: "/", MaxAge: -1})
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	level, msg, ok := strings.Cut(string(raw), "|")
	if !ok || msg == "" {
		return nil
	}
	return &Notice{Level: level, Message: msg}
}
