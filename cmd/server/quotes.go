package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/printworks/internal/quote"
)

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	items, err := s.quotes.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSONSuccess(w, http.StatusOK, items)
}

func (s *server) handleQuoteCreate(w http.ResponseWriter, r *http.Request) {
	var req quote.Request
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	q, err := s.quotes.Create(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/quotes/"+q.Reference)
	writeJSONSuccess(w, http.StatusCreated, q)
}

func (s *server) handleQuoteDetail(w http.ResponseWriter, r *http.Request) {
	q, err := s.quotes.Get(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSONSuccess(w, http.StatusOK, q)
}

func (s *server) handleQuoteText(w http.ResponseWriter, r *http.Request) {
	q, err := s.quotes.Get(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(quote.Text(q)))
}
