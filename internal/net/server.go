// Package net is the LAN side of LocalSketch: the HTTP folder/image API, the
// websocket practice sessions, and mDNS advertisement and discovery.
package net

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"LocalSketch/internal/library"
)

const shutdownTimeout = 5 * time.Second

type Options struct {
	Defaults SessionDefaults
	// Static holds the web front-end; index.html at its root.
	Static fs.FS
	Logger *slog.Logger
}

type Server struct {
	lib      *library.Library
	peers    *PeerManager
	opts     Options
	log      *slog.Logger
	upgrader websocket.Upgrader
	handler  http.Handler
}

func NewServer(lib *library.Library, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &Server{
		lib:   lib,
		peers: NewPeerManager(),
		opts:  opts,
		log:   opts.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Any page on the LAN may open a session.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/folders", s.handleFolders)
	mux.HandleFunc("GET /api/images", s.handleImages)
	mux.HandleFunc("GET /api/images/info", s.handleImageInfo)
	mux.HandleFunc("GET /images/{path...}", s.handleImageFile)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /ws", s.handleWS)
	if s.opts.Static != nil {
		mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFileFS(w, r, s.opts.Static, "index.html")
		})
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(s.opts.Static)))
	}
	return s.logRequests(mux)
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Peers() *PeerManager {
	return s.peers
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.peers.CloseAll()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("server shutdown", "error", err)
		}
	}()

	s.log.Info("host server listening", "addr", ln.Addr().String(), "root", s.lib.Root())
	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		<-stopped
		return nil
	}
	return err
}

func (s *Server) handleFolders(w http.ResponseWriter, r *http.Request) {
	if tree := r.URL.Query().Get("tree"); tree == "1" || tree == "true" {
		folders, err := s.lib.FolderTree(r.Context())
		if err != nil {
			s.log.Error("reading folder tree", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to read folders")
			return
		}
		writeJSON(w, http.StatusOK, folders)
		return
	}
	folders, err := s.lib.Folders(r.Context())
	if err != nil {
		s.log.Error("reading folders", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to read folders")
		return
	}
	writeJSON(w, http.StatusOK, folders)
}

func (s *Server) handleImages(w http.ResponseWriter, r *http.Request) {
	images, err := s.lib.Images(r.Context(), splitFolders(r.URL.Query().Get("folders")))
	if err != nil {
		if errors.Is(err, library.ErrOutsideRoot) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error("reading images", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to read images")
		return
	}
	writeJSON(w, http.StatusOK, images)
}

func (s *Server) handleImageInfo(w http.ResponseWriter, r *http.Request) {
	rel := r.URL.Query().Get("path")
	if rel == "" || !library.IsImage(rel) {
		writeError(w, http.StatusBadRequest, "path must name an image")
		return
	}
	info, err := s.lib.Info(rel)
	if err != nil {
		s.writeFileError(w, rel, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleImageFile(w http.ResponseWriter, r *http.Request) {
	rel := r.PathValue("path")
	f, err := s.lib.Open(rel)
	if err != nil {
		s.writeFileError(w, rel, err)
		return
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil || st.IsDir() {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	http.ServeContent(w, r, path.Base(rel), st.ModTime(), f)
}

func (s *Server) writeFileError(w http.ResponseWriter, rel string, err error) {
	switch {
	case errors.Is(err, library.ErrOutsideRoot):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, fs.ErrNotExist):
		writeError(w, http.StatusNotFound, "not found")
	default:
		s.log.Error("reading image", "path", rel, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to read image")
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		s.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	p := newPeer(conn, s.lib, s.opts.Defaults, s.log)
	s.peers.Add(p)
	defer s.peers.Remove(p)
	p.serve(r.Context())
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("http request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// splitFolders parses the comma-separated folders query value.
func splitFolders(v string) []string {
	var out []string
	for _, f := range strings.Split(v, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
