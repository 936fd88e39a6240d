package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sebrandon1/pdf-summarizer/internal/gateway"
	"github.com/sebrandon1/pdf-summarizer/internal/summarizer"
)

// multipartMemory is how much of an upload is held in memory before spilling to disk.
const multipartMemory = 32 << 20

type errorResponse struct {
	Detail string `json:"detail"`
}

type rootResponse struct {
	Message     string `json:"message"`
	OllamaModel string `json:"ollama_model"`
}

type healthResponse struct {
	Status           string `json:"status"`
	OllamaAccessible bool   `json:"ollama_accessible"`
}

type textRequest struct {
	Text string `json:"text"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps pipeline errors onto status codes: 400 for caller
// mistakes, 504 for a backend timeout, 500 for everything else.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	detail := "Error during summarization: " + err.Error()

	var inputErr *gateway.InputError
	var backendErr *summarizer.BackendError
	switch {
	case errors.As(err, &inputErr):
		status = http.StatusBadRequest
		detail = inputErr.Message
	case errors.As(err, &backendErr):
		detail = backendErr.Error()
		switch backendErr.Kind {
		case summarizer.KindTimeout:
			status = http.StatusGatewayTimeout
		case summarizer.KindUnreachable, summarizer.KindStatus:
			status = http.StatusInternalServerError
		}
	}

	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "status", status, "requestID", RequestID(r.Context()), "error", err)
	}
	writeJSON(w, status, errorResponse{Detail: detail})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{
		Message:     "PDF Summarizer API is running",
		OllamaModel: s.cfg.Model,
	})
}

// handleHealth never fails; any backend problem is reported as unhealthy.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "healthy", OllamaAccessible: true}
	if err := s.backend.Ping(r.Context()); err != nil {
		s.log.Warn("ollama not accessible", "error", err)
		resp = healthResponse{Status: "unhealthy", OllamaAccessible: false}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUploadPDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.writeBodyError(w, err, "Expected a multipart form with a 'file' field")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "A file must be uploaded in the 'file' field"})
		return
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeBodyError(w, err, "Failed to read uploaded file")
		return
	}

	result, err := s.service.FromPDF(r.Context(), header.Filename, data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSummarizeText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBodyError(w, err, "Request body must be JSON of the form {\"text\": \"...\"}")
		return
	}

	result, err := s.service.FromText(r.Context(), req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writeBodyError answers 413 for oversized bodies and 400 otherwise.
func (s *Server) writeBodyError(w http.ResponseWriter, err error, detail string) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Detail: "Request body too large"})
		return
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{Detail: detail})
}
