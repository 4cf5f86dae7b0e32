package services

import (
	"context"
	"fmt"

	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/database"
	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/models"
	"github.com/GENZ-ARSH/GENZ-CORE-sub000/pkg/logger"
)

type LibraryService struct {
	db database.Database
}

func NewLibraryService(db database.Database) *LibraryService {
	return &LibraryService{db: db}
}

func (s *LibraryService) CreateBook(ctx context.Context, req *models.CreateBookRequest, user *models.User) (*models.Book, error) {
	if user.Role != "admin" {
		return nil, fmt.Errorf("forbidden - only admins can add books")
	}
	if req.Title == "" || req.FileURL == "" {
		return nil, fmt.Errorf("title and file URL are required")
	}

	book, err := s.db.CreateBook(ctx, req, user.ID)
	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, user.ID, "book_added", book.Title)
	return book, nil
}

func (s *LibraryService) ListBooks(ctx context.Context, className, subject string) ([]*models.Book, error) {
	return s.db.ListBooks(ctx, className, subject)
}

func (s *LibraryService) GetBook(ctx context.Context, bookID int) (*models.Book, error) {
	return s.db.GetBookByID(ctx, bookID)
}

// DownloadBook resolves the file URL for a book and bumps its counter.
func (s *LibraryService) DownloadBook(ctx context.Context, bookID, userID int) (*models.Book, error) {
	book, err := s.db.GetBookByID(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("book not found")
	}

	if err := s.db.IncrementDownloads(ctx, bookID); err != nil {
		return nil, err
	}
	book.Downloads++

	s.recordActivity(ctx, userID, "book_downloaded", book.Title)
	return book, nil
}

func (s *LibraryService) DeleteBook(ctx context.Context, bookID int, user *models.User) error {
	if user.Role != "admin" {
		return fmt.Errorf("forbidden - only admins can delete books")
	}

	book, err := s.db.GetBookByID(ctx, bookID)
	if err != nil {
		return fmt.Errorf("book not found")
	}

	if err := s.db.DeleteBook(ctx, bookID); err != nil {
		return err
	}

	s.recordActivity(ctx, user.ID, "book_removed", book.Title)
	return nil
}

func (s *LibraryService) CreateBookRequest(ctx context.Context, req *models.CreateBookRequestRequest, userID int) (*models.BookRequest, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("request title is required")
	}

	request, err := s.db.CreateBookRequest(ctx, req, userID)
	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, userID, "book_requested", request.Title)
	return request, nil
}

func (s *LibraryService) ListBookRequests(ctx context.Context, status string) ([]*models.BookRequest, error) {
	if status != "" && !isValidRequestStatus(status) {
		return nil, fmt.Errorf("invalid status filter")
	}
	return s.db.ListBookRequests(ctx, status)
}

func (s *LibraryService) UpdateRequestStatus(ctx context.Context, requestID int, status string, user *models.User) (*models.BookRequest, error) {
	if user.Role != "admin" {
		return nil, fmt.Errorf("forbidden - only admins can update request status")
	}
	if !isValidRequestStatus(status) {
		return nil, fmt.Errorf("invalid status")
	}

	if err := s.db.UpdateRequestStatus(ctx, requestID, status); err != nil {
		return nil, err
	}

	request, err := s.db.GetBookRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, user.ID, "request_"+status, request.Title)
	return request, nil
}

func (s *LibraryService) RecentActivities(ctx context.Context, limit int) ([]*models.Activity, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.db.ListRecentActivities(ctx, limit)
}

// Activity rows are best-effort; a failed insert never fails the operation
// that produced it.
func (s *LibraryService) recordActivity(ctx context.Context, userID int, action, detail string) {
	if err := s.db.RecordActivity(ctx, userID, action, detail); err != nil {
		logger.Error("Error recording activity %s: %v", action, err)
	}
}

func isValidRequestStatus(status string) bool {
	switch status {
	case models.RequestStatusPending, models.RequestStatusApproved, models.RequestStatusRejected, models.RequestStatusFulfilled:
		return true
	}
	return false
}
