package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/brief/internal/ingest"
	"github.com/MikeSquared-Agency/brief/internal/locale"
	"github.com/MikeSquared-Agency/brief/internal/wizard"
)

// snapshot is the wire form of a session.
type snapshot struct {
	wizard.Session
	Progress progress `json:"progress"`
}

// progress is the 1-based position of the current step.
type progress struct {
	Step  int `json:"step"`
	Total int `json:"total"`
}

func newSnapshot(s wizard.Session) snapshot {
	return snapshot{
		Session:  s,
		Progress: progress{Step: s.Step.Index() + 1, Total: len(wizard.Steps)},
	}
}

type createSessionRequest struct {
	Locale string `json:"locale"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON: "+err.Error())
		return
	}

	ui := locale.Match(r.Header.Get("Accept-Language"))
	if strings.TrimSpace(req.Locale) != "" {
		tag, err := locale.Parse(req.Locale)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		ui = tag
	}

	writeJSON(w, http.StatusCreated, newSnapshot(s.sessions.Create(ui)))
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSnapshot(sess))
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) postEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		code, status := "invalid_request", http.StatusBadRequest
		if c, st := errorCode(err); st != http.StatusInternalServerError {
			code, status = c, st
		}
		writeError(w, status, code, "invalid JSON: "+err.Error())
		return
	}
	ev, err := req.event()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.dispatch(w, r, ev)
}

func (s *Server) uploadFile(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the upload limit")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the upload limit")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	ext := ingest.Extension(header.Filename)
	record, err := ingest.Ingest(header.Filename, file)
	if err != nil {
		s.metrics.ObserveIngest(ext, "rejected")
		if errors.Is(err, ingest.ErrUnsupportedFileType) {
			writeDomainError(w, err)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	outcome := "accepted"
	if !s.dispatch(w, r, wizard.AttachFile{File: record}) {
		outcome = "refused"
	}
	s.metrics.ObserveIngest(ext, outcome)
}

func (s *Server) removeFile(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, wizard.RemoveFile{})
}

// dispatch applies ev and writes the resulting snapshot. Refused transitions
// carry the error code; the session itself is unchanged. It reports whether
// the event was applied.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, ev wizard.Event) bool {
	sess, err := s.sessions.Dispatch(r.Context(), chi.URLParam(r, "id"), ev)
	if err != nil {
		writeDomainError(w, err)
		return false
	}
	writeJSON(w, http.StatusOK, newSnapshot(sess))
	return true
}
