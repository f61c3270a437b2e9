package handlers

import (
	"embed"
	"net/http"
)

//go:embed web/*.html
var pages embed.FS

// StaticHandler serves the client pages
type StaticHandler struct {
	index    []byte
	contact  []byte
	video    []byte
	notFound []byte
}

// NewStaticHandler creates a new static handler
func NewStaticHandler() *StaticHandler {
	return &StaticHandler{
		index:    mustPage("web/index.html"),
		contact:  mustPage("web/contact.html"),
		video:    mustPage("web/video.html"),
		notFound: mustPage("web/notfound.html"),
	}
}

func mustPage(name string) []byte {
	data, err := pages.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return data
}

// Index serves the presentation page
// GET /
func (h *StaticHandler) Index(w http.ResponseWriter, r *http.Request) {
	servePage(w, http.StatusOK, h.index)
}

// Contact serves the registration form
// GET /contact, GET /register
func (h *StaticHandler) Contact(w http.ResponseWriter, r *http.Request) {
	servePage(w, http.StatusOK, h.contact)
}

// Video serves the video page
// GET /video
func (h *StaticHandler) Video(w http.ResponseWriter, r *http.Request) {
	servePage(w, http.StatusOK, h.video)
}

// NotFound serves the 404 page
func (h *StaticHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	servePage(w, http.StatusNotFound, h.notFound)
}

func servePage(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}
