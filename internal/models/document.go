package models

import (
	"encoding/json"
	"time"
)

type Document struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedBy int       `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateDocumentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}

// DocumentOperation is an append-only record of an edit against a document.
// Operations are stored for audit/history; they are never merged or replayed
// into the document content.
type DocumentOperation struct {
	ID         int             `json:"id"`
	DocumentID int             `json:"document_id"`
	UserID     int             `json:"user_id"`
	Changes    json.RawMessage `json:"changes"`
	Position   json.RawMessage `json:"position,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type AppendOperationRequest struct {
	Changes  json.RawMessage `json:"changes"`
	Position json.RawMessage `json:"position,omitempty"`
}
