package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/jonathan/resume-builder/internal/form"
	"github.com/jonathan/resume-builder/internal/rendering"
)

// ValueRequest is the body of every edit that carries a value.
type ValueRequest struct {
	Value string `json:"value"`
}

// decodeValue reads an optional {"value": ...} body. An empty body is an
// empty value.
func decodeValue(r *http.Request) (string, error) {
	var req ValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return "", &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return req.Value, nil
}

// apply runs e and writes the mutation response.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, e form.Edit, status int) {
	res, err := s.controller.Apply(r.Context(), e)
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, status, res)
}

// applyValue decodes the body value into e and applies it.
func (s *Server) applyValue(w http.ResponseWriter, r *http.Request, e form.Edit) {
	value, err := decodeValue(r)
	if err != nil {
		s.failure(w, err)
		return
	}
	e.Value = value
	s.apply(w, r, e, http.StatusOK)
}

// handleGetDocument returns the current snapshot
func (s *Server) handleGetDocument(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleSetPersonal(w http.ResponseWriter, r *http.Request) {
	s.applyValue(w, r, form.Edit{Section: form.SectionPersonal, Field: r.PathValue("field")})
}

func (s *Server) handleSetSummary(w http.ResponseWriter, r *http.Request) {
	s.applyValue(w, r, form.Edit{Section: form.SectionSummary})
}

func (s *Server) handleSetTemplate(w http.ResponseWriter, r *http.Request) {
	s.applyValue(w, r, form.Edit{Section: form.SectionTemplate})
}

func (s *Server) handleAddSkill(w http.ResponseWriter, r *http.Request) {
	s.applyValue(w, r, form.Edit{Section: form.SectionSkills, Op: form.OpAdd})
}

// handleRemoveSkill removes the skill at a position. A non-numeric index is a
// malformed request; a numeric one out of range is a no-op.
func (s *Server) handleRemoveSkill(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.failure(w, &ErrValidation{Field: "index", Message: "must be an integer"})
		return
	}
	s.apply(w, r, form.Edit{Section: form.SectionSkills, Op: form.OpRemove, Index: index}, http.StatusOK)
}

func (s *Server) handleClearSkills(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, form.Edit{Section: form.SectionSkills, Op: form.OpClear}, http.StatusOK)
}

func (s *Server) handleAddExperience(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, form.Edit{Section: form.SectionExperience, Op: form.OpAdd}, http.StatusCreated)
}

func (s *Server) handleUpdateExperience(w http.ResponseWriter, r *http.Request) {
	s.applyValue(w, r, form.Edit{
		Section: form.SectionExperience,
		ID:      r.PathValue("id"),
		Field:   r.PathValue("field"),
	})
}

func (s *Server) handleRemoveExperience(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, form.Edit{Section: form.SectionExperience, Op: form.OpRemove, ID: r.PathValue("id")}, http.StatusOK)
}

func (s *Server) handleAddEducation(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, form.Edit{Section: form.SectionEducation, Op: form.OpAdd}, http.StatusCreated)
}

func (s *Server) handleUpdateEducation(w http.ResponseWriter, r *http.Request) {
	s.applyValue(w, r, form.Edit{
		Section: form.SectionEducation,
		ID:      r.PathValue("id"),
		Field:   r.PathValue("field"),
	})
}

func (s *Server) handleRemoveEducation(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, form.Edit{Section: form.SectionEducation, Op: form.OpRemove, ID: r.PathValue("id")}, http.StatusOK)
}

// handleReset replaces the draft with the default document. Confirmation is
// the client's job.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, form.Edit{Section: form.SectionDocument, Op: form.OpReset}, http.StatusOK)
}

// handlePreview renders the current draft as HTML. The template query
// parameter previews another variant without changing the document.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	doc := s.store.Snapshot()
	variant := doc.Template
	if name := r.URL.Query().Get("template"); name != "" {
		v, err := rendering.Lookup(name)
		if err != nil {
			s.failure(w, err)
			return
		}
		variant = v
	}

	page, err := rendering.HTML(rendering.Render(doc, variant, rendering.WithWidth(s.pageWidth)))
	if err != nil {
		s.failure(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, page)
}

// handleExport exports the snapshot taken when the request arrives.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "export is not configured")
		return
	}

	file, err := s.exporter.ExportDocument(r.Context(), s.store.Snapshot(), rendering.WithWidth(s.pageWidth))
	if err != nil {
		s.failure(w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", contentDisposition(file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		s.logger.Warn("failed to write export", "file", file.Name, "error", err)
	}
}

// contentDisposition marks the response as a download named name. Non-ASCII
// names are sent as an RFC 2231 filename* parameter.
func contentDisposition(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment"
}
