package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/aellingwood/glimpse/internal/excerpt"
	"github.com/aellingwood/glimpse/internal/search"
)

// maxBodyBytes caps POST bodies.
const maxBodyBytes = 1 << 20

// SearchResponse is the body of GET /api/search.
type SearchResponse struct {
	Query   string          `json:"query"`
	Tokens  []string        `json:"tokens"`
	Count   int             `json:"count"`
	Results []search.Result `json:"results"`
}

// ExcerptRequest is the body of POST /api/excerpt. Exactly one of Text and
// Markdown is expected; Markdown is converted to plain text first. Tokens
// wins over Query when both are set.
type ExcerptRequest struct {
	Text      string   `json:"text,omitempty"`
	Markdown  string   `json:"markdown,omitempty"`
	Tokens    []string `json:"tokens,omitempty"`
	Query     string   `json:"query,omitempty"`
	MaxLength int      `json:"maxLength,omitempty"`
}

// ExcerptResponse is the body answering POST /api/excerpt.
type ExcerptResponse struct {
	HTML string `json:"html"`
	Text string `json:"text"`
}

// TitleRequest is the body of POST /api/title.
type TitleRequest struct {
	Title  string   `json:"title"`
	Tokens []string `json:"tokens,omitempty"`
	Query  string   `json:"query,omitempty"`
	Mode   string   `json:"mode,omitempty"`
}

// TitleResponse is the body answering POST /api/title.
type TitleResponse struct {
	HTML string `json:"html"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	limit := s.options.DefaultLimit
	if raw := params.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	q := search.Query{
		Text:    params.Get("q"),
		Section: params.Get("section"),
		Tag:     params.Get("tag"),
		Limit:   limit,
	}
	tokens := search.ParseQuery(q.Text)
	q.Tokens = tokens

	results := s.Library().Search(q)
	if results == nil {
		results = []search.Result{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{
		Query:   q.Text,
		Tokens:  tokens,
		Count:   len(results),
		Results: results,
	})
}

func (s *Server) handleExcerpt(w http.ResponseWriter, r *http.Request) {
	var req ExcerptRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	text := req.Text
	if req.Markdown != "" {
		text = s.conv.Convert(req.Markdown)
	}
	if strings.TrimSpace(text) == "" {
		writeError(w, http.StatusBadRequest, "text or markdown is required")
		return
	}

	maxLength := req.MaxLength
	if maxLength <= 0 {
		maxLength = s.Library().Highlighter().MaxLength
	}

	writeJSON(w, http.StatusOK, ExcerptResponse{
		HTML: excerpt.SmartHTML(text, tokensOf(req.Tokens, req.Query), maxLength),
		Text: text,
	})
}

func (s *Server) handleTitle(w http.ResponseWriter, r *http.Request) {
	var req TitleRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	mode := s.Library().Highlighter().TitleMode
	if req.Mode != "" {
		m, err := excerpt.ParseMode(req.Mode)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		mode = m
	}

	writeJSON(w, http.StatusOK, TitleResponse{
		HTML: excerpt.HighlightTitleHTML(req.Title, tokensOf(req.Tokens, req.Query), mode),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	data, err := search.GenerateIndex(s.Library().Entries(), s.options.ContentLength)
	if err != nil {
		s.logger.Error("encoding index", "err", err)
		writeError(w, http.StatusInternalServerError, "encoding index failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"entries": s.Library().Len(),
		"clients": s.hub.ClientCount(),
	})
}

// tokensOf prefers explicit tokens and otherwise splits query.
func tokensOf(tokens []string, query string) []string {
	if len(tokens) > 0 {
		return tokens
	}
	return search.ParseQuery(query)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return errors.New("invalid JSON body: " + err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
