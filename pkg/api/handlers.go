package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/docval/pkg/document"
	"github.com/dmitrymomot/docval/pkg/logger"
	"github.com/dmitrymomot/docval/pkg/ruleset"
	"github.com/dmitrymomot/docval/pkg/validator"
)

// rulesetInfo describes a stored rule set.
type rulesetInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Format      string   `json:"format"`
	Digest      string   `json:"digest"`
	Fields      []string `json:"fields"`
}

func infoOf(rs *ruleset.Ruleset) rulesetInfo {
	return rulesetInfo{
		Name:        rs.Name,
		Description: rs.Description,
		Format:      string(rs.Format),
		Digest:      rs.Digest(),
		Fields:      rs.Fields(),
	}
}

func bodyFormat(r *http.Request) (document.Format, error) {
	return document.FormatFromContentType(r.Header.Get("Content-Type"))
}

func (s *Server) validateInline(w http.ResponseWriter, r *http.Request) error {
	format, err := bodyFormat(r)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	req, err := decodeInline(data, format)
	if err != nil {
		if errors.Is(err, ruleset.ErrInvalidRuleset) {
			s.compileFailed(r, "", err)
		}
		return err
	}

	v, err := req.Rules.Compile(s.validatorOpts...)
	if err != nil {
		s.compileFailed(r, "", err)
		return err
	}
	s.respond(w, r, "", v, req.Data)
	return nil
}

func (s *Server) listRulesets(w http.ResponseWriter, r *http.Request) error {
	names, err := s.catalog.Store().List(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, s.logger, r, http.StatusOK, map[string][]string{"rulesets": names})
	return nil
}

// getRuleset answers with the source the rule set was stored from.
func (s *Server) getRuleset(w http.ResponseWriter, r *http.Request) error {
	rs, err := s.catalog.Store().Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		return err
	}

	contentType := "application/json"
	if rs.Format == document.FormatYAML {
		contentType = "application/yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("ETag", `"`+rs.Digest()+`"`)
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(rs.Source)
	return err
}

// putRuleset stores the body as the named rule set. The rule set must
// compile. A name inside the body must match the one in the URL.
func (s *Server) putRuleset(w http.ResponseWriter, r *http.Request) error {
	name := chi.URLParam(r, "name")
	if err := ruleset.ValidateName(name); err != nil {
		return err
	}
	format, err := bodyFormat(r)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}

	rs, err := ruleset.Parse(data, format)
	if err != nil {
		return err
	}
	if rs.Name != "" && rs.Name != name {
		return ErrNameMismatch.WithMessage("ruleset name " + rs.Name + " does not match " + name)
	}
	rs.Name = name

	if _, err := rs.Compile(s.validatorOpts...); err != nil {
		s.compileFailed(r, name, err)
		return err
	}
	if err := s.catalog.Store().Put(r.Context(), rs); err != nil {
		return err
	}
	s.catalog.Invalidate(name)

	s.logger.InfoContext(r.Context(), "ruleset stored",
		logger.Ruleset(name), logger.Digest(rs.Digest()))
	writeJSON(w, s.logger, r, http.StatusOK, infoOf(rs))
	return nil
}

func (s *Server) deleteRuleset(w http.ResponseWriter, r *http.Request) error {
	name := chi.URLParam(r, "name")
	if err := s.catalog.Store().Delete(r.Context(), name); err != nil {
		return err
	}
	s.catalog.Invalidate(name)

	s.logger.InfoContext(r.Context(), "ruleset deleted", logger.Ruleset(name))
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) validateStored(w http.ResponseWriter, r *http.Request) error {
	name := chi.URLParam(r, "name")
	v, _, err := s.catalog.Validator(r.Context(), name)
	if err != nil {
		if errors.Is(err, ruleset.ErrInvalidRuleset) {
			s.compileFailed(r, name, err)
		}
		return err
	}

	format, err := bodyFormat(r)
	if err != nil {
		return err
	}
	doc, err := document.Decode(r.Body, format)
	if err != nil {
		return err
	}
	s.respond(w, r, name, v, doc)
	return nil
}

// respond validates doc and writes the result. A failed validation is still
// a 200 response carrying "valid": false.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, name string, v *validator.Validator, doc validator.Value) {
	start := time.Now()
	res := v.ValidateValue(doc)
	took := time.Since(start)

	if s.metrics != nil {
		s.metrics.ObserveValidation(name, res, took)
	}
	s.logger.DebugContext(r.Context(), "document validated",
		logger.Ruleset(name),
		slog.Bool("valid", res.Valid()),
		logger.Duration(took),
	)
	writeJSON(w, s.logger, r, http.StatusOK, res)
}

func (s *Server) compileFailed(r *http.Request, name string, err error) {
	if s.metrics != nil {
		s.metrics.CompileError(name)
	}
	s.logger.WarnContext(r.Context(), "ruleset does not compile",
		logger.Ruleset(name), logger.Error(err))
}
