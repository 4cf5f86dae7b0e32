package models

import "time"

type Book struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Subject     string    `json:"subject"`
	ClassName   string    `json:"class_name"`
	FileURL     string    `json:"file_url"`
	CoverURL    string    `json:"cover_url,omitempty"`
	Downloads   int       `json:"downloads"`
	UploadedBy  int       `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateBookRequest struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Subject   string `json:"subject"`
	ClassName string `json:"class_name"`
	FileURL   string `json:"file_url"`
	CoverURL  string `json:"cover_url,omitempty"`
}

// Request statuses for book requests.
const (
	RequestStatusPending   = "pending"
	RequestStatusApproved  = "approved"
	RequestStatusRejected  = "rejected"
	RequestStatusFulfilled = "fulfilled"
)

type BookRequest struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	Status        string    `json:"status"`
	RequestedBy   int       `json:"requested_by"`
	RequesterName string    `json:"requester_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreateBookRequestRequest struct {
	Title  string `json:"title"`
	Author string `json:"author,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type UpdateRequestStatusRequest struct {
	Status string `json:"status"`
}

type Activity struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
