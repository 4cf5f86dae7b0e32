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

type LibraryHandlers struct {
	libraryService *services.LibraryService
	authService    *auth.Service
}

func NewLibraryHandlers(libraryService *services.LibraryService, authService *auth.Service) *LibraryHandlers {
	return &LibraryHandlers{
		libraryService: libraryService,
		authService:    authService,
	}
}

func (h *LibraryHandlers) CreateBook(w http.ResponseWriter, r *http.Request) {
	user, err := userFromRequest(r, h.authService)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	book, err := h.libraryService.CreateBook(r.Context(), &req, user)
	if err != nil {
		logger.Error("Create book error: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, book)
}

func (h *LibraryHandlers) ListBooks(w http.ResponseWriter, r *http.Request) {
	if _, err := userFromRequest(r, h.authService); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	books, err := h.libraryService.ListBooks(r.Context(), r.URL.Query().Get("class"), r.URL.Query().Get("subject"))
	if err != nil {
		logger.Error("List books error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, books)
}

func (h *LibraryHandlers) GetBook(w http.ResponseWriter, r *http.Request) {
	if _, err := userFromRequest(r, h.authService); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	bookID, err := idFromPath(r)
	if err != nil {
		http.Error(w, "invalid book ID", http.StatusBadRequest)
		return
	}

	book, err := h.libraryService.GetBook(r.Context(), bookID)
	if err != nil {
		http.Error(w, "book not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, book)
}

func (h *LibraryHandlers) DownloadBook(w http.ResponseWriter, r *http.Request) {
	user, err := userFromRequest(r, h.authService)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	bookID, err := idFromPath(r)
	if err != nil {
		http.Error(w, "invalid book ID", http.StatusBadRequest)
		return
	}

	book, err := h.libraryService.DownloadBook(r.Context(), bookID, user.ID)
	if err != nil {
		logger.Error("Download book error: %v", err)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"file_url":  book.FileURL,
		"downloads": book.Downloads,
	})
}

func (h *LibraryHandlers) DeleteBook(w http.ResponseWriter, r *http.Request) {
	user, err := userFromRequest(r, h.authService)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	bookID, err := idFromPath(r)
	if err != nil {
		http.Error(w, "invalid book ID", http.StatusBadRequest)
		return
	}

	if err := h.libraryService.DeleteBook(r.Context(), bookID, user); err != nil {
		logger.Error("Delete book error: %v", err)
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *LibraryHandlers) CreateBookRequest(w http.ResponseWriter, r *http.Request) {
	user, err := userFromRequest(r, h.authService)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CreateBookRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	request, err := h.libraryService.CreateBookRequest(r.Context(), &req, user.ID)
	if err != nil {
		logger.Error("Create book request error: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, request)
}

func (h *LibraryHandlers) ListBookRequests(w http.ResponseWriter, r *http.Request) {
	if _, err := userFromRequest(r, h.authService); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	requests, err := h.libraryService.ListBookRequests(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		logger.Error("List book requests error: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

func (h *LibraryHandlers) UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	user, err := userFromRequest(r, h.authService)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	requestID, err := idFromPath(r)
	if err != nil {
		http.Error(w, "invalid request ID", http.StatusBadRequest)
		return
	}

	var req models.UpdateRequestStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	request, err := h.libraryService.UpdateRequestStatus(r.Context(), requestID, req.Status, user)
	if err != nil {
		logger.Error("Update request status error: %v", err)
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	writeJSON(w, http.StatusOK, request)
}

func (h *LibraryHandlers) ListActivities(w http.ResponseWriter, r *http.Request) {
	if _, err := userFromRequest(r, h.authService); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	activities, err := h.libraryService.RecentActivities(r.Context(), limit)
	if err != nil {
		logger.Error("List activities error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, activities)
}
