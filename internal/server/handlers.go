package server

import (
	stderrors "errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/trackmap/pkg/errors"
	"github.com/matzehuels/trackmap/pkg/payload"
	"github.com/matzehuels/trackmap/pkg/persist"
)

type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeNotFound, errors.ErrCodeFieldNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidShape,
		errors.ErrCodeInvalidKey, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeSectionRequired:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "status", status, "err", err)
		msg = "internal error"
	} else {
		s.logger.Warn("request failed", "id", RequestID(r.Context()), "status", status, "err", err)
	}
	writeJSON(w, status, errorBody{Code: string(code), Error: msg})
}

// readDocument parses a request body in any inbound shape.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) (payload.Document, payload.Shape, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return payload.Document{}, payload.ShapeUnknown, errors.New(errors.ErrCodeInvalidInput, "body exceeds %d bytes", tooLarge.Limit)
		}
		return payload.Document{}, payload.ShapeUnknown, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	return payload.Parse(data)
}

func fieldKey(r *http.Request) persist.Key {
	return persist.Key{
		ProjectID: chi.URLParam(r, "projectID"),
		FieldID:   chi.URLParam(r, "fieldID"),
	}
}

func (s *Server) handleGetField(w http.ResponseWriter, r *http.Request) {
	doc, err := s.remote.Load(r.Context(), fieldKey(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = payload.Write(doc, w)
}

func (s *Server) handlePutField(w http.ResponseWriter, r *http.Request) {
	s.save(w, r, fieldKey(r), http.StatusOK)
}

func (s *Server) handleCreateField(w http.ResponseWriter, r *http.Request) {
	s.save(w, r, persist.Key{ProjectID: chi.URLParam(r, "projectID")}, http.StatusCreated)
}

func (s *Server) save(w http.ResponseWriter, r *http.Request, key persist.Key, status int) {
	doc, shape, err := s.readDocument(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.remote.Save(r.Context(), key, doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("field saved", "id", RequestID(r.Context()), "key", key.WithField(rec.FieldID), "shape", shape, "entities", doc.Counts().Total())
	writeJSON(w, status, rec)
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	doc, shape, err := s.readDocument(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Trackmap-Shape", shape.String())
	_ = payload.Write(doc, w)
}
