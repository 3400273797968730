package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/listkeeper/backend/internal/docfile"
	"github.com/listkeeper/backend/internal/service"
)

type OpenDocumentRequest struct {
	Path string `json:"path" example:"/home/alex/groceries.yaml"`
}

func (r *OpenDocumentRequest) Validate() error {
	if strings.TrimSpace(r.Path) == "" {
		return errors.New("path is required")
	}
	return nil
}

type DocumentStatusResponse struct {
	Status string `json:"status"`
	Open   bool   `json:"open"`
	Name   string `json:"name,omitempty"`
	Path   string `json:"path,omitempty"`
}

type RecentDocumentResponse struct {
	Path       string       `json:"path"`
	Mode       docfile.Mode `json:"mode"`
	LastOpened time.Time    `json:"last_opened"`
}

// documentStatus reports the save status and the open document, if any.
// @Summary      Document status
// @Tags         Documents
// @Produce      json
// @Success      200  {object}  DocumentStatusResponse
// @Router       /document [get]
func (h *Handler) documentStatus(w http.ResponseWriter, r *http.Request) {
	resp := DocumentStatusResponse{Status: string(h.store.Status())}
	if name, path, ok := h.documents.Current(); ok {
		resp.Open = true
		resp.Name = name
		resp.Path = path
	}
	respondJSON(w, http.StatusOK, resp)
}

// openDocument opens an existing document and replaces the in-memory
// state with its contents. The state is untouched when the file is
// missing, unreadable or invalid.
// @Summary      Open a document
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        body  body      OpenDocumentRequest  true  "Document path"
// @Success      200   {object}  DocumentStatusResponse
// @Failure      400   {object}  map[string]string
// @Router       /document/open [post]
func (h *Handler) openDocument(w http.ResponseWriter, r *http.Request) {
	var req OpenDocumentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.documents.Open(r.Context(), req.Path); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.documentStatus(w, r)
}

// createDocument starts a fresh document at a path that must not exist
// yet, seeded with the current in-memory state.
// @Summary      Create a document
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        body  body      OpenDocumentRequest  true  "Document path"
// @Success      201   {object}  DocumentStatusResponse
// @Failure      400   {object}  map[string]string
// @Router       /document/new [post]
func (h *Handler) createDocument(w http.ResponseWriter, r *http.Request) {
	var req OpenDocumentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.documents.Create(r.Context(), req.Path); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := DocumentStatusResponse{Status: string(h.store.Status())}
	if name, path, ok := h.documents.Current(); ok {
		resp.Open = true
		resp.Name = name
		resp.Path = path
	}
	respondJSON(w, http.StatusCreated, resp)
}

// saveDocument writes the current state out immediately, bypassing the
// autosave delay.
// @Summary      Save now
// @Tags         Documents
// @Produce      json
// @Success      200  {object}  DocumentStatusResponse
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /document/save [post]
func (h *Handler) saveDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.documents.Save(r.Context()); err != nil {
		if errors.Is(err, service.ErrNoDocument) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.documentStatus(w, r)
}

// recentDocuments lists remembered documents, most recent first.
// @Summary      Recent documents
// @Tags         Documents
// @Produce      json
// @Param        limit  query     int  false  "Maximum entries"  default(10)
// @Success      200    {array}   RecentDocumentResponse
// @Failure      500    {object}  map[string]string
// @Router       /document/recent [get]
func (h *Handler) recentDocuments(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.documents.Recent(limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list recent documents")
		return
	}

	response := make([]RecentDocumentResponse, len(entries))
	for i, e := range entries {
		response[i] = RecentDocumentResponse{Path: e.Path, Mode: e.Mode, LastOpened: e.LastOpened}
	}
	respondJSON(w, http.StatusOK, response)
}
