// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pdiddy/drivenote/internal/docsync"
	"github.com/pdiddy/drivenote/internal/store"
)

// flexBool accepts both true and "true".
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case bool:
		*b = flexBool(v)
	case string:
		*b = v == "true"
	case nil:
		*b = false
	default:
		return errors.New("isDraft must be a boolean")
	}
	return nil
}

type documentRequest struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	IsDraft *flexBool `json:"isDraft"`
}

type tokenRequest struct {
	AccessToken string `json:"accessToken"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var title, content string
	if req.Title != nil {
		title = *req.Title
	}
	if req.Content != nil {
		content = *req.Content
	}
	draft := req.IsDraft != nil && bool(*req.IsDraft)

	doc, err := s.docs.Create(r.Context(), userID(r), title, content, draft)
	if errors.Is(err, store.ErrInvalid) {
		writeMessage(w, http.StatusBadRequest, "Title and content are required")
		return
	}
	if err != nil {
		s.log.Error("creating document", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Error creating document")
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	docs, err := s.docs.List(r.Context(), userID(r))
	if err != nil {
		s.log.Error("listing documents", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong!")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := s.docs.GetForUser(r.Context(), chi.URLParam(r, "id"), userID(r))
	if isNotFound(err) {
		writeMessage(w, http.StatusNotFound, "Document not found")
		return
	}
	if err != nil {
		s.log.Error("fetching document", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Error fetching document")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p := store.Patch{Title: req.Title, Content: req.Content}
	if req.IsDraft != nil {
		v := bool(*req.IsDraft)
		p.IsDraft = &v
	}

	doc, err := s.docs.Update(r.Context(), chi.URLParam(r, "id"), userID(r), p)
	if isNotFound(err) {
		writeMessage(w, http.StatusNotFound, "Document not found")
		return
	}
	if err != nil {
		s.log.Error("updating document", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Error updating document")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := s.docs.GetForUser(r.Context(), id, userID(r)); err != nil {
		if isNotFound(err) {
			writeMessage(w, http.StatusNotFound, "Document not found")
			return
		}
		s.log.Error("fetching document", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Error uploading document")
		return
	}

	res, err := s.sync.Upload(r.Context(), id, req.AccessToken)
	if err != nil {
		body := map[string]any{"message": "Error uploading document", "error": err.Error()}
		var se *docsync.Error
		if errors.As(err, &se) {
			body["phase"] = se.Phase.String()
			if se.RemoteID != "" {
				body["driveId"] = se.RemoteID
			}
		}
		writeJSON(w, syncStatus(err), body)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Document uploaded",
		"driveId": res.RemoteID,
		"created": res.Created,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if r.ContentLength != 0 {
		// The access token is optional; without it only the local copy goes.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	err := s.sync.Delete(r.Context(), chi.URLParam(r, "id"), userID(r), req.AccessToken)
	if err != nil {
		status := syncStatus(err)
		msg := "Error deleting document"
		if status == http.StatusNotFound {
			msg = "Document not found"
		}
		writeMessage(w, status, msg)
		return
	}
	writeMessage(w, http.StatusOK, "Document deleted successfully")
}
