package database

import (
	"context"

	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/models"
)

type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

type BookRepository interface {
	CreateBook(ctx context.Context, req *models.CreateBookRequest, uploaderID int) (*models.Book, error)
	GetBookByID(ctx context.Context, id int) (*models.Book, error)
	ListBooks(ctx context.Context, className, subject string) ([]*models.Book, error)
	IncrementDownloads(ctx context.Context, bookID int) error
	DeleteBook(ctx context.Context, bookID int) error
}

type BookRequestRepository interface {
	CreateBookRequest(ctx context.Context, req *models.CreateBookRequestRequest, requesterID int) (*models.BookRequest, error)
	GetBookRequestByID(ctx context.Context, id int) (*models.BookRequest, error)
	ListBookRequests(ctx context.Context, status string) ([]*models.BookRequest, error)
	UpdateRequestStatus(ctx context.Context, requestID int, status string) error
}

type TaskRepository interface {
	CreateTask(ctx context.Context, req *models.CreateTaskRequest, creatorID int) (*models.Task, error)
	GetTaskByID(ctx context.Context, id int) (*models.Task, error)
	ListTasks(ctx context.Context, status string) ([]*models.Task, error)
	UpdateTask(ctx context.Context, taskID int, req *models.UpdateTaskRequest) (*models.Task, error)
	AssignTask(ctx context.Context, taskID, userID int) error
	DeleteTask(ctx context.Context, taskID int) error
}

type ActivityRepository interface {
	RecordActivity(ctx context.Context, userID int, action, detail string) error
	ListRecentActivities(ctx context.Context, limit int) ([]*models.Activity, error)
}

type DocumentRepository interface {
	CreateDocument(ctx context.Context, req *models.CreateDocumentRequest, creatorID int) (*models.Document, error)
	GetDocumentByID(ctx context.Context, id int) (*models.Document, error)
	ListDocuments(ctx context.Context) ([]*models.Document, error)
	UpdateDocumentContent(ctx context.Context, documentID int, content string) error
	AppendOperation(ctx context.Context, documentID, userID int, req *models.AppendOperationRequest) (*models.DocumentOperation, error)
	ListOperations(ctx context.Context, documentID, limit int) ([]*models.DocumentOperation, error)
}

type Database interface {
	UserRepository
	BookRepository
	BookRequestRepository
	TaskRepository
	ActivityRepository
	DocumentRepository
	Close() error
}
