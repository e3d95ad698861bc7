package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/evcraddock/comment-board/internal/comment"
	"github.com/evcraddock/comment-board/internal/logging"
)

// handleCommentList serves GET {prefix}/comments/.
func (s *Server) handleCommentList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, "GET, HEAD")
		return
	}

	comments, err := s.store.ListAll(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "listing comments",
			"request_id", logging.RequestID(r.Context()),
			"error", err,
		)
		writeEnvelope(w, envelope{Message: msgServerError, Error: err.Error()}, http.StatusInternalServerError)
		return
	}

	views := comment.Views(comments, s.loc)
	writeEnvelope(w, envelope{
		Success: true,
		Message: msgListOK,
		Data:    listData{Count: len(views), Comments: views},
	}, http.StatusOK)
}

// handleCommentCreate serves POST {prefix}/comments/create/.
func (s *Server) handleCommentCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	in, errs := decodeInput(r)
	if errs != nil {
		writeEnvelope(w, envelope{Message: msgBadRequest, Errors: errs}, http.StatusBadRequest)
		return
	}

	content, errs := in.Validate()
	if errs != nil {
		writeEnvelope(w, envelope{Message: msgBadRequest, Errors: errs}, http.StatusBadRequest)
		return
	}

	c, err := s.store.Insert(r.Context(), content)
	if err != nil {
		slog.ErrorContext(r.Context(), "saving comment",
			"request_id", logging.RequestID(r.Context()),
			"error", err,
		)
		writeEnvelope(w, envelope{Message: msgSaveError, Error: err.Error()}, http.StatusInternalServerError)
		return
	}

	if err := s.publisher.CommentCreated(r.Context(), c); err != nil {
		slog.WarnContext(r.Context(), "publishing comment.created",
			"request_id", logging.RequestID(r.Context()),
			"comment_id", c.ID,
			"error", err,
		)
	}

	writeEnvelope(w, envelope{
		Success: true,
		Message: msgCreateOK,
		Data:    c.View(s.loc),
	}, http.StatusCreated)
}

// decodeInput reads a create request from a JSON or form body. An empty
// body decodes to an empty Input so that validation reports the missing
// field.
func decodeInput(r *http.Request) (comment.Input, comment.FieldErrors) {
	var in comment.Input

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(32 << 10); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return in, bodyError(err)
		}
		if vals, ok := r.PostForm["content"]; ok && len(vals) > 0 {
			raw, err := json.Marshal(vals[0])
			if err != nil {
				return in, bodyError(err)
			}
			in.Content = raw
		}
		return in, nil
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return comment.Input{}, nil
		}
		return comment.Input{}, bodyError(err)
	}
	// The body must hold a single JSON value.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if !errors.As(err, &tooLarge) {
			err = errTrailingData
		}
		return comment.Input{}, bodyError(err)
	}
	return in, nil
}

var errTrailingData = errors.New("unexpected data after JSON body")

// bodyError maps a body read or decode failure to a field error on "body".
func bodyError(err error) comment.FieldErrors {
	errs := comment.FieldErrors{}
	var tooLarge *http.MaxBytesError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &tooLarge):
		errs.Add("body", msgBodyTooLarge)
	case errors.As(err, &typeErr) && typeErr.Field == "":
		errs.Add("body", msgBodyNotObject)
	default:
		errs.Add("body", msgBodyNotJSON)
	}
	return errs
}
