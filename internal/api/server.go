package api

import (
	"encoding/json"
	"image/png"
	"log"
	"net/http"

	"github.com/ivlev/spritecast/internal/player"
)

// Server exposes the selection controls and status read-outs over HTTP:
// the UI surface of a running player.
type Server struct {
	player *player.Player
	addr   string
}

// NewServer creates a control server for a player.
func NewServer(p *player.Player, addr string) *Server {
	return &Server{player: p, addr: addr}
}

// Serve blocks, listening on the configured address.
func (s *Server) Serve() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/animations", s.handleAnimations)
	mux.HandleFunc("/select", s.handleSelect)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/frame.png", s.handleFrame)

	log.Printf("[*] Control API listening on %s", s.addr)
	return http.ListenAndServe(s.addr, mux)
}

func (s *Server) handleAnimations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.player.Animations())
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	key := r.URL.Query().Get("key")
	if !s.player.Select(key) {
		// Playback state is untouched; only the HTTP surface reports it.
		http.Error(w, "unknown animation", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]string{"selected": key})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.player.Status())
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	img, err := s.player.Frame()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		log.Printf("[!] Frame encode failed: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[!] Response encode failed: %v", err)
	}
}
