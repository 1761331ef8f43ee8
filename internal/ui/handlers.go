package ui

import (
	"bytes"
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"
)

// routes wires the server's handlers onto the mux.
func (s *Server) routes(r chi.Router) {
	r.Get("/", s.handleIndex)
	r.Get("/figures/{name}", s.handleViewer)
	r.Get("/events", s.handleEvents)
	r.Get("/assets/app.js", s.handleAppJS)
	r.Get("/assets/app.css", s.handleAppCSS)

	fileServer := http.FileServer(http.FS(os.DirFS(s.figuresDir)))
	r.Handle("/raw/*", http.StripPrefix("/raw/", fileServer))
}

// handleIndex renders the figure listing page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	figures, err := listFigures(s.figuresDir)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexPage(figures).Render(w); err != nil {
		s.logger.Error("render index failed", "error", err)
	}
}

// handleViewer renders the wrapper page for one figure.
func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !validFigureName(name) {
		http.NotFound(w, r)
		return
	}

	figures, err := listFigures(s.figuresDir)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !findFigure(figures, name) {
		http.NotFound(w, r)
		return
	}

	prev, next := neighbors(figures, name)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := viewerPage(name, prev, next).Render(w); err != nil {
		s.logger.Error("render viewer failed", "error", err)
	}
}

// handleEvents is the long-lived update stream every page subscribes to.
// Index subscribers get the listing re-patched; viewer subscribers
// (identified by the fig query param) get their iframe reloaded with a
// fresh cache-buster.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	fig := r.URL.Query().Get("fig")
	if fig != "" && !validFigureName(fig) {
		return
	}

	updates := s.notifier.Subscribe()
	defer s.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			var err error
			if fig != "" {
				err = s.reloadFrame(sse, fig)
			} else {
				err = s.patchListing(sse)
			}
			if err != nil {
				_ = sse.ConsoleError(err)
				// Keep the stream open; the next ping retries
			}
		}
	}
}

// patchListing re-renders the index listing and patches it in place.
func (s *Server) patchListing(sse *datastar.ServerSentEventGenerator) error {
	figures, err := listFigures(s.figuresDir)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := figureListing(figures).Render(&buf); err != nil {
		return err
	}
	return sse.PatchElements(buf.String())
}

// reloadFrame bumps the viewer iframe's cache-buster so the browser
// refetches the rebuilt figure.
func (s *Server) reloadFrame(sse *datastar.ServerSentEventGenerator, name string) error {
	script := fmt.Sprintf(
		"var f = document.getElementById('figure-frame'); if (f) { f.src = '/raw/' + encodeURIComponent(%q) + '?t=' + Date.now(); }",
		name,
	)
	return sse.ExecuteScript(script)
}

func (s *Server) handleAppJS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(s.assets.JS))
}

func (s *Server) handleAppCSS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(s.assets.CSS))
}
