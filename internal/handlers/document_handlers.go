package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/auth"
	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/models"
	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/services"
	"github.com/GENZ-ARSH/GENZ-CORE-sub000/pkg/logger"
)

type DocumentHandlers struct {
	documentService *services.DocumentService
	authService     *auth.Service
}

func NewDocumentHandlers(documentService *services.DocumentService, authService *auth.Service) *DocumentHandlers {
	return &DocumentHandlers{
		documentService: documentService,
		authService:     authService,
	}
}

func (h *DocumentHandlers) CreateDocument(w http.ResponseWriter, r *http.Request) {
	user, err := userFromRequest(r, h.authService)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	doc, err := h.documentService.CreateDocument(r.Context(), &req, user.ID)
	if err != nil {
		logger.Error("Create document error: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandlers) ListDocuments(w http.ResponseWriter, r *http.Request) {
	if _, err := userFromRequest(r, h.authService); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	docs, err := h.documentService.ListDocuments(r.Context())
	if err != nil {
		logger.Error("List documents error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, docs)
}

func (h *DocumentHandlers) GetDocument(w http.ResponseWriter, r *http.Request) {
	if _, err := userFromRequest(r, h.authService); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	documentID, err := idFromPath(r)
	if err != nil {
		http.Error(w, "invalid document ID", http.StatusBadRequest)
		return
	}

	doc, err := h.documentService.GetDocument(r.Context(), documentID)
	if err != nil {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandlers) UpdateContent(w http.ResponseWriter, r *http.Request) {
	if _, err := userFromRequest(r, h.authService); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	documentID, err := idFromPath(r)
	if err != nil {
		http.Error(w, "invalid document ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.documentService.UpdateContent(r.Context(), documentID, req.Content); err != nil {
		logger.Error("Update document error: %v", err)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *DocumentHandlers) AppendOperation(w http.ResponseWriter, r *http.Request) {
	user, err := userFromRequest(r, h.authService)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	documentID, err := idFromPath(r)
	if err != nil {
		http.Error(w, "invalid document ID", http.StatusBadRequest)
		return
	}

	var req models.AppendOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	op, err := h.documentService.AppendOperation(r.Context(), documentID, user.ID, &req)
	if err != nil {
		logger.Error("Append operation error: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, op)
}

func (h *DocumentHandlers) ListOperations(w http.ResponseWriter, r *http.Request) {
	if _, err := userFromRequest(r, h.authService); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	documentID, err := idFromPath(r)
	if err != nil {
		http.Error(w, "invalid document ID", http.StatusBadRequest)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	ops, err := h.documentService.ListOperations(r.Context(), documentID, limit)
	if err != nil {
		logger.Error("List operations error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ops)
}
