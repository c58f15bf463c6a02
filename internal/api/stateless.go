package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/MikeSquared-Agency/brief/internal/form"
	"github.com/MikeSquared-Agency/brief/internal/ingest"
	"github.com/MikeSquared-Agency/brief/internal/locale"
	"github.com/MikeSquared-Agency/brief/internal/prompt"
)

const (
	msgGenerateFailed  = "Failed to generate email"
	msgSummarizeFailed = "Failed to summarize file"
)

// generateRequest is the one-shot form submitted by clients that keep the
// wizard state themselves. MyRole is the older name of SenderRole.
type generateRequest struct {
	SenderRole           string              `json:"senderRole"`
	MyRole               string              `json:"myRole"`
	RecipientRole        string              `json:"recipientRole"`
	ProjectName          string              `json:"projectName"`
	SenderName           string              `json:"senderName"`
	RecipientName        string              `json:"recipientName"`
	ContextText          string              `json:"contextText"`
	Purpose              string              `json:"purpose"`
	Clarifications       form.Clarifications `json:"clarifications"`
	Language             string              `json:"language"`
	IngestedFile         *form.File          `json:"ingestedFile"`
	FileSummary          string              `json:"fileSummary"`
	RevisionInstructions string              `json:"revisionInstructions"`
	PreviousDraft        string              `json:"previousDraft"`
}

// payload validates the request and assembles the prompt payload. File
// content goes through the same ingestion policy as uploads; a supplied
// summary, capped to the same length, stands in for the file content.
func (req generateRequest) payload() (prompt.Payload, error) {
	f := form.State{
		SenderRole:    req.SenderRole,
		RecipientRole: req.RecipientRole,
		ProjectName:   req.ProjectName,
		SenderName:    req.SenderName,
		RecipientName: req.RecipientName,
		ContextText:   req.ContextText,
	}
	if f.SenderRole == "" {
		f.SenderRole = req.MyRole
	}

	if strings.TrimSpace(req.Purpose) != "" {
		p, err := form.ParsePurpose(req.Purpose)
		if err != nil {
			return prompt.Payload{}, err
		}
		f.Purpose = p
	}

	if err := req.Clarifications.Validate(); err != nil {
		return prompt.Payload{}, err
	}
	f.Clarifications = req.Clarifications.Normalize()

	out := locale.Default
	if strings.TrimSpace(req.Language) != "" {
		tag, err := locale.Parse(req.Language)
		if err != nil {
			return prompt.Payload{}, err
		}
		out = tag
	}

	summary := ingest.Truncate(strings.TrimSpace(req.FileSummary), ingest.MaxChars)
	switch {
	case req.IngestedFile != nil:
		file, err := ingest.Admit(*req.IngestedFile)
		if err != nil {
			return prompt.Payload{}, err
		}
		if summary != "" {
			file.Content = summary
		}
		f.IngestedFile = &file
	case summary != "":
		f.IngestedFile = &form.File{Content: summary}
	}

	var rev *prompt.Revision
	if strings.TrimSpace(req.RevisionInstructions) != "" {
		rev = &prompt.Revision{Instructions: req.RevisionInstructions, PreviousDraft: req.PreviousDraft}
	}
	return prompt.Build(f, out, rev), nil
}

func (s *Server) generateEmail(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON: "+err.Error())
		return
	}
	p, err := req.payload()
	if err != nil {
		code, status := errorCode(err)
		if status != http.StatusUnsupportedMediaType {
			status = http.StatusBadRequest
		}
		writeError(w, status, code, err.Error())
		return
	}

	text, err := s.generator.Generate(r.Context(), p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "", msgGenerateFailed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": text})
}

type summarizeRequest struct {
	FileName    string `json:"fileName"`
	FileContent string `json:"fileContent"`
}

func (s *Server) summarizeFile(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.FileName) == "" {
		writeError(w, http.StatusBadRequest, "", "File name is required")
		return
	}

	content := ingest.Truncate(req.FileContent, ingest.MaxChars)
	summary, err := s.generator.Summarize(r.Context(), req.FileName, content)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "", msgSummarizeFailed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}
