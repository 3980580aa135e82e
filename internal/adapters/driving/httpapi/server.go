// Package httpapi exposes the ingestion and chat services over HTTP.
// Uploads go to POST /api/documents; answers stream from GET /api/chat
// as server-sent events.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// Server handles the HTTP API.
type Server struct {
	ingest     driving.IngestService
	chat       driving.ChatService
	uploadsDir string
	limiter    *rate.Limiter
	router     chi.Router
}

// Option customises server behaviour.
type Option func(*Server)

// WithUploadsDir archives accepted uploads into dir. Empty disables
// archiving.
func WithUploadsDir(dir string) Option {
	return func(s *Server) {
		s.uploadsDir = dir
	}
}

// WithRateLimit throttles the upload endpoint to limit requests per
// second with the given burst.
func WithRateLimit(limit float64, burst int) Option {
	return func(s *Server) {
		if limit > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(limit), burst)
		}
	}
}

// NewServer creates the HTTP API server.
func NewServer(ingest driving.IngestService, chat driving.ChatService, opts ...Option) *Server {
	s := &Server{
		ingest: ingest,
		chat:   chat,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/api/documents", s.handleUpload)
	r.Get("/api/chat", s.handleChat)
	r.Get("/healthz", s.handleHealth)
	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// uploadResponse is the JSON body returned for an accepted upload.
type uploadResponse struct {
	DocumentID   string `json:"document_id"`
	Source       string `json:"source"`
	SegmentCount int    `json:"segment_count"`
}

// errorResponse is the JSON body returned for a failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// handleUpload accepts a multipart file upload and ingests it.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.limiter != nil && !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "too many uploads, slow down")
		return
	}

	// Cap the whole request slightly above the document limit to leave
	// room for the multipart framing.
	r.Body = http.MaxBytesReader(w, r.Body, domain.MaxUploadSize+64*1024)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds the 3 MiB limit")
			return
		}
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds the 3 MiB limit")
			return
		}
		writeError(w, http.StatusBadRequest, "reading upload")
		return
	}

	result, err := s.ingest.Ingest(r.Context(), content, header.Filename)
	if err != nil {
		writeIngestError(w, err)
		return
	}

	if s.uploadsDir != "" {
		if err := s.archiveUpload(header.Filename, content); err != nil {
			// Archiving is best effort; the document is already indexed.
			logger.Warn("Failed to archive upload %s: %v", header.Filename, err)
		}
	}

	writeJSON(w, http.StatusCreated, uploadResponse{
		DocumentID:   result.DocumentID,
		Source:       result.Source,
		SegmentCount: result.SegmentCount,
	})
}

// archiveUpload persists the accepted file under a collision-free name.
func (s *Server) archiveUpload(filename string, content []byte) error {
	if err := os.MkdirAll(s.uploadsDir, 0700); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	name := uuid.NewString() + "_" + domain.SanitizeFilename(filename)
	return os.WriteFile(filepath.Join(s.uploadsDir, name), content, 0600)
}

// handleChat streams the answer to ?q= as server-sent events. ?chat_id=
// selects the conversation history; omitting it disables memory.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	question := r.URL.Query().Get("q")
	if question == "" {
		writeError(w, http.StatusBadRequest, "missing q parameter")
		return
	}
	conversationID := r.URL.Query().Get("chat_id")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	tokens, errs := s.chat.Answer(r.Context(), conversationID, question)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for token := range tokens {
		data, err := json.Marshal(token)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	if err := <-errs; err != nil {
		// Headers are already sent; report the failure as an event.
		fmt.Fprintf(w, "event: error\ndata: %q\n\n", err.Error())
		flusher.Flush()
		return
	}

	fmt.Fprint(w, "event: done\ndata: \n\n")
	flusher.Flush()
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeIngestError maps pipeline failures to HTTP status codes.
func writeIngestError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrPayloadTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, domain.ErrUnsupportedFormat):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, domain.ErrExtractionFailed), errors.Is(err, domain.ErrEmptyDocument):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrIngestionTimeout):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	default:
		logger.Warn("Ingestion failed: %v", err)
		writeError(w, http.StatusInternalServerError, "ingestion failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// ListenAndServe runs the server on addr until the process exits.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("HTTP API listening on %s", addr)
	return srv.ListenAndServe()
}
