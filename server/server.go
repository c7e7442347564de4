// Package server exposes the swap session to a browser front-end as a small
// JSON API.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/youke3399/youke-uniswap/config"
	"github.com/youke3399/youke-uniswap/db"
	"github.com/youke3399/youke-uniswap/swap"
	"github.com/youke3399/youke-uniswap/tokens"
)

type Server struct {
	cfg   *config.Config
	orch  *swap.Orchestrator
	store *db.Store
}

func New(cfg *config.Config, orch *swap.Orchestrator, store *db.Store) *Server {
	return &Server{
		cfg:   cfg,
		orch:  orch,
		store: store,
	}
}

func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/tokens", s.handleTokens)
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/select", s.handleSelect)
	mux.HandleFunc("/api/amount", s.handleAmount)
	mux.HandleFunc("/api/chain", s.handleChain)
	mux.HandleFunc("/api/quote/refresh", s.handleQuoteRefresh)
	mux.HandleFunc("/api/swap", s.handleSwap)
	mux.HandleFunc("/api/history", s.handleHistory)

	addr := fmt.Sprintf(":%d", s.cfg.Port)
	log.Printf("HTTP server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

type tokenView struct {
	ChainID  uint64 `json:"chainId"`
	Address  string `json:"address,omitempty"`
	Decimals uint8  `json:"decimals"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	IsNative bool   `json:"isNative"`
}

func toTokenView(t tokens.Token) tokenView {
	v := tokenView{
		ChainID:  t.ChainID,
		Decimals: t.Decimals,
		Symbol:   t.Symbol,
		Name:     t.Name,
		IsNative: t.IsNative(),
	}
	if !t.IsNative() {
		v.Address = t.Address.Hex()
	}
	return v
}

func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	available := s.orch.Session().Available()
	views := make([]tokenView, 0, len(available))
	for _, t := range available {
		views = append(views, toTokenView(t))
	}
	writeJSON(w, views)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.orch.Session().Snapshot())
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req struct {
		Slot   string `json:"slot"` // "from" or "to"
		Symbol string `json:"symbol"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	token, ok := tokens.Find(s.orch.Session().ChainID(), req.Symbol)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown token %q", req.Symbol))
		return
	}

	switch req.Slot {
	case "from":
		s.orch.SelectFrom(token)
	case "to":
		s.orch.SelectTo(token)
	default:
		writeError(w, http.StatusBadRequest, `slot must be "from" or "to"`)
		return
	}

	writeJSON(w, s.orch.Session().Snapshot())
}

func (s *Server) handleAmount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req struct {
		Field  string `json:"field"` // "from" or "to"
		Amount string `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	switch req.Field {
	case "from":
		s.orch.SetFromAmount(req.Amount)
	case "to":
		s.orch.SetToAmount(req.Amount)
	default:
		writeError(w, http.StatusBadRequest, `field must be "from" or "to"`)
		return
	}

	writeJSON(w, s.orch.Session().Snapshot())
}

func (s *Server) handleChain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req struct {
		ChainID uint64 `json:"chainId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(tokens.ForChain(req.ChainID)) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported chain %d", req.ChainID))
		return
	}

	s.orch.SetChain(req.ChainID)
	writeJSON(w, s.orch.Session().Snapshot())
}

// handleQuoteRefresh reprices the current intent immediately, bypassing the
// debounce (the front-end calls this on window refocus).
func (s *Server) handleQuoteRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	s.orch.RefreshQuote(r.Context())
	writeJSON(w, s.orch.Session().Snapshot())
}

// handleSwap is the swap button: it advances the approve→swap flow one step
// and blocks until the step's transaction confirms. Errors surface in the
// returned state, not as HTTP failures.
func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	if err := s.orch.HandleAction(r.Context()); err != nil {
		log.Printf("swap action: %v", err)
	}
	writeJSON(w, s.orch.Session().Snapshot())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	swaps, err := s.store.ListSwaps(r.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if swaps == nil {
		swaps = []db.SwapRecord{}
	}
	writeJSON(w, swaps)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
