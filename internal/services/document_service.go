package services

import (
	"context"
	"fmt"

	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/database"
	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/models"
)

// DocumentService manages collaborative document records. Edit operations
// are persisted as an append-only log for history; live signalling between
// editors happens over the relay, and no merge or replay of operations into
// the content is ever attempted.
type DocumentService struct {
	db database.Database
}

func NewDocumentService(db database.Database) *DocumentService {
	return &DocumentService{db: db}
}

func (s *DocumentService) CreateDocument(ctx context.Context, req *models.CreateDocumentRequest, creatorID int) (*models.Document, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("document title is required")
	}

	return s.db.CreateDocument(ctx, req, creatorID)
}

func (s *DocumentService) ListDocuments(ctx context.Context) ([]*models.Document, error) {
	return s.db.ListDocuments(ctx)
}

func (s *DocumentService) GetDocument(ctx context.Context, documentID int) (*models.Document, error) {
	return s.db.GetDocumentByID(ctx, documentID)
}

func (s *DocumentService) UpdateContent(ctx context.Context, documentID int, content string) error {
	return s.db.UpdateDocumentContent(ctx, documentID, content)
}

func (s *DocumentService) AppendOperation(ctx context.Context, documentID, userID int, req *models.AppendOperationRequest) (*models.DocumentOperation, error) {
	if len(req.Changes) == 0 {
		return nil, fmt.Errorf("operation changes are required")
	}

	if _, err := s.db.GetDocumentByID(ctx, documentID); err != nil {
		return nil, fmt.Errorf("document not found")
	}

	return s.db.AppendOperation(ctx, documentID, userID, req)
}

func (s *DocumentService) ListOperations(ctx context.Context, documentID, limit int) ([]*models.DocumentOperation, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.db.ListOperations(ctx, documentID, limit)
}
