// Package server exposes the upload, extraction and download API.
//
//	POST /api/upload    multipart "file" -> {fileId, originalName, message}
//	POST /api/process   {fileId, solveQuestions} -> extraction result
//	POST /api/download  {markdown, format} -> document bytes
//	GET  /uploads/...   stored uploads
//	GET  /              liveness text
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ByLCY/paperdoc/convert"
	"github.com/ByLCY/paperdoc/extract"
	"github.com/ByLCY/paperdoc/ingest"
)

const (
	defaultMaxUpload = 10 << 20
	rootMessage      = "Paper-to-Word API is running"
	imagePlaceholder = "[Image Data]"
)

// allowedUpload matches both the extension and the declared MIME type.
var allowedUpload = regexp.MustCompile(`jpeg|jpg|png|pdf`)

// Options wires the server dependencies.
type Options struct {
	Converter *convert.Converter
	Extractor extract.Backend
	UploadDir string
	// MaxUploadBytes defaults to 10 MiB.
	MaxUploadBytes int64
	Logger         *log.Logger
	// Now stamps stored file names; defaults to time.Now.
	Now func() time.Time
}

// Server serves the HTTP API.
type Server struct {
	converter *convert.Converter
	extractor extract.Backend
	uploadDir string
	maxUpload int64
	logger    *log.Logger
	now       func() time.Time
}

// New creates a Server. A nil Logger logs to stderr.
func New(opts Options) *Server {
	s := &Server{
		converter: opts.Converter,
		extractor: opts.Extractor,
		uploadDir: opts.UploadDir,
		maxUpload: opts.MaxUploadBytes,
		logger:    opts.Logger,
		now:       opts.Now,
	}
	if s.uploadDir == "" {
		s.uploadDir = "uploads"
	}
	if s.maxUpload <= 0 {
		s.maxUpload = defaultMaxUpload
	}
	if s.logger == nil {
		s.logger = log.New(os.Stderr, "paperdoc: ", log.LstdFlags)
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Handler returns the routed API with permissive CORS.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("POST /api/process", s.handleProcess)
	mux.HandleFunc("POST /api/download", s.handleDownload)
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploadDir))))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, rootMessage)
	})
	return withCORS(s.recoverer(mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("Server running on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type uploadResponse struct {
	FileID       string `json:"fileId"`
	OriginalName string `json:"originalName"`
	Message      string `json:"message"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+(1<<20))
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Size > s.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}
	original := filepath.Base(header.Filename)
	ext := strings.ToLower(filepath.Ext(original))
	if !allowedUpload.MatchString(ext) || !allowedUpload.MatchString(header.Header.Get("Content-Type")) {
		writeError(w, http.StatusBadRequest, "Only images and PDFs are allowed!")
		return
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		s.fail(w, "Upload Error", err)
		return
	}
	fileID := fmt.Sprintf("%d-%s", s.now().UnixMilli(), original)
	if err := saveFile(filepath.Join(s.uploadDir, fileID), file); err != nil {
		s.fail(w, "Upload Error", err)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		FileID:       fileID,
		OriginalName: original,
		Message:      "File uploaded successfully",
	})
}

func saveFile(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return err
	}
	return dst.Close()
}

type processRequest struct {
	FileID         string `json:"fileId"`
	SolveQuestions bool   `json:"solveQuestions"`
}

type processResponse struct {
	Success         bool   `json:"success"`
	DetectedType    string `json:"detectedType"`
	MarkdownContent string `json:"markdownContent"`
	RawText         string `json:"rawText"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.FileID == "" {
		writeError(w, http.StatusBadRequest, "fileId required")
		return
	}

	fileID := filepath.Base(req.FileID)
	path := filepath.Join(s.uploadDir, fileID)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}

	s.logger.Printf("Processing %s...", fileID)
	in, err := ingest.Load(path, ingest.MIMETypeFor(fileID))
	if err != nil {
		s.logger.Printf("File Processing Error: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to process file.")
		return
	}

	s.logger.Printf("Sending to extractor (%s) [Solve: %t]...", in.Kind, req.SolveQuestions)
	res := extract.Process(r.Context(), s.extractor, in, req.SolveQuestions)

	raw := imagePlaceholder
	if in.Kind == extract.KindText {
		raw = in.Text
	}
	writeJSON(w, http.StatusOK, processResponse{
		Success:         true,
		DetectedType:    res.DetectedType,
		MarkdownContent: res.MarkdownContent,
		RawText:         raw,
	})
}

type downloadRequest struct {
	Markdown string `json:"markdown"`
	Format   string `json:"format"`
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Markdown == "" || req.Format == "" {
		writeError(w, http.StatusBadRequest, "markdown and format required")
		return
	}
	format, err := convert.ParseFormat(req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, `Invalid format. Use "docx" or "pdf".`)
		return
	}
	if s.converter == nil {
		s.fail(w, "Generation Error", errors.New("no converter configured"))
		return
	}

	out, err := s.converter.Convert(req.Markdown, format)
	if err != nil {
		s.fail(w, "Generation Error", err)
		return
	}
	w.Header().Set("Content-Type", out.MIMEType)
	w.Header().Set("Content-Disposition", "attachment; filename="+out.Filename)
	w.Write(out.Data)
}

func (s *Server) fail(w http.ResponseWriter, what string, err error) {
	s.logger.Printf("%s: %v", what, err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.Printf("panic serving %s: %v", r.URL.Path, rec)
				writeJSON(w, http.StatusInternalServerError, map[string]string{
					"error":   "Something went wrong!",
					"details": fmt.Sprint(rec),
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET,HEAD,PUT,PATCH,POST,DELETE")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		h.Set("Access-Control-Expose-Headers", "Content-Disposition")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
