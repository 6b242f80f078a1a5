package server

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/a-h/templ"

	"github.com/conneroisu/herobook/internal/errors"
	"github.com/conneroisu/herobook/internal/stories"
	"github.com/conneroisu/herobook/internal/types"
	"github.com/conneroisu/herobook/internal/version"
	"github.com/conneroisu/herobook/internal/websocket"
)

// storySummary is one entry of GET /stories
type storySummary struct {
	Name             string                 `json:"name"`
	Slug             string                 `json:"slug"`
	Title            string                 `json:"title"`
	Languages        int                    `json:"languages"`
	ContributorCount types.Optional[string] `json:"contributor_count"`
	ChapterCount     types.Optional[int]    `json:"chapter_count"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Stories int    `json:"stories"`
	Clients int    `json:"clients"`
	Version string `json:"version"`

	Connections []websocket.ClientInfo `json:"connections"`
}

// Handler returns the server's routes wrapped in its middleware
func (s *PreviewServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /stories", s.handleStories)
	mux.HandleFunc("GET /stories/{slug}", s.handleStory)
	mux.HandleFunc("GET /render/{slug}", s.handleRender)
	mux.HandleFunc("GET /ws", s.wsManager.HandleWebSocket)
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.addMiddleware(mux)
}

func (s *PreviewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.renderer.RenderIndex(r.Context(), &buf); err != nil {
		s.logger.Error(r.Context(), err, "Failed to render index")
		http.Error(w, "Failed to render index", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Debug(r.Context(), "Failed to write index response", "error", err.Error())
	}
}

func (s *PreviewServer) handleStories(w http.ResponseWriter, r *http.Request) {
	catalog := s.registry.Catalog()

	summaries := make([]storySummary, 0, len(catalog.Stories))
	for _, story := range catalog.Stories {
		summaries = append(summaries, storySummary{
			Name:             story.Name,
			Slug:             story.Slug,
			Title:            story.Title,
			Languages:        len(story.Props.Languages),
			ContributorCount: story.Props.ContributorCount,
			ChapterCount:     story.Props.ChapterCount,
		})
	}

	s.writeJSON(w, r, http.StatusOK, summaries)
}

func (s *PreviewServer) handleStory(w http.ResponseWriter, r *http.Request) {
	story, err := s.registry.Lookup(r.PathValue("slug"))
	if err != nil {
		s.writeLookupError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, story)
}

func (s *PreviewServer) handleRender(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	if r.URL.Query().Get("bare") == "1" {
		_, component, err := s.renderer.Component(slug)
		if err != nil {
			s.writeLookupError(w, r, err)
			return
		}
		templ.Handler(component).ServeHTTP(w, r)
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.RenderPage(r.Context(), &buf, slug); err != nil {
		s.writeLookupError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Debug(r.Context(), "Failed to write render response", "error", err.Error())
	}
}

func (s *PreviewServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, healthResponse{
		Status:  "ok",
		Stories: s.registry.Count(),
		Clients: s.wsManager.GetConnectedClients(),
		Version: version.GetShortVersion(),

		Connections: s.wsManager.GetClients(),
	})
}

// writeLookupError maps unknown stories to 404 and anything else, which is
// always a malformed slug, to 400.
func (s *PreviewServer) writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if stderrors.Is(err, stories.ErrStoryNotFound) {
		enhanced := errors.NewEnhancedError("Story not found", err,
			errors.StoryNotFoundError(r.PathValue("slug"),
				&errors.SuggestionContext{AvailableStories: s.registry.Slugs()}))
		http.Error(w, enhanced.Error(), http.StatusNotFound)
		return
	}

	http.Error(w, err.Error(), http.StatusBadRequest)
}

func (s *PreviewServer) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		s.logger.Error(r.Context(), err, "Failed to marshal response")
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.logger.Debug(r.Context(), "Failed to write response", "error", err.Error())
	}
}
