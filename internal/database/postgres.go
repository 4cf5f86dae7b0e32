package database

import (
	"context"
	"fmt"

	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/models"
	"github.com/GENZ-ARSH/GENZ-CORE-sub000/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type PostgresDB struct {
	pool *pgxpool.Pool
}

func NewPostgresDB(databaseURL string) (*PostgresDB, error) {
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database successfully")
	return &PostgresDB{pool: pool}, nil
}

func (db *PostgresDB) Close() error {
	db.pool.Close()
	return nil
}

// User Repository Implementation
func (db *PostgresDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, full_name, email, role, COALESCE(class_name, ''), password_hash, created_at FROM users WHERE email = $1`

	user := &models.User{}
	err := db.pool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.FullName, &user.Email, &user.Role, &user.ClassName, &user.PasswordHash, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (db *PostgresDB) CreateUser(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `
		INSERT INTO users (full_name, email, role, class_name, password_hash, created_at)
		VALUES ($1, $2, 'user', $3, $4, NOW())
		RETURNING id, full_name, email, role, COALESCE(class_name, ''), created_at`

	user := &models.User{PasswordHash: string(hash)}
	err = db.pool.QueryRow(ctx, query, req.FullName, req.Email, req.ClassName, string(hash)).Scan(
		&user.ID, &user.FullName, &user.Email, &user.Role, &user.ClassName, &user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (db *PostgresDB) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT id, full_name, email, role, COALESCE(class_name, ''), created_at FROM users WHERE id = $1`

	user := &models.User{}
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.FullName, &user.Email, &user.Role, &user.ClassName, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (db *PostgresDB) ListUsers(ctx context.Context) ([]*models.User, error) {
	query := `SELECT id, full_name, email, role, COALESCE(class_name, ''), created_at FROM users ORDER BY full_name`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.FullName, &user.Email, &user.Role, &user.ClassName, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}

// Book Repository Implementation
func (db *PostgresDB) CreateBook(ctx context.Context, req *models.CreateBookRequest, uploaderID int) (*models.Book, error) {
	query := `
		INSERT INTO books (title, author, subject, class_name, file_url, cover_url, downloads, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, NOW())
		RETURNING id, title, author, subject, class_name, file_url, COALESCE(cover_url, ''), downloads, uploaded_by, created_at`

	book := &models.Book{}
	err := db.pool.QueryRow(ctx, query, req.Title, req.Author, req.Subject, req.ClassName, req.FileURL, req.CoverURL, uploaderID).Scan(
		&book.ID, &book.Title, &book.Author, &book.Subject, &book.ClassName, &book.FileURL, &book.CoverURL, &book.Downloads, &book.UploadedBy, &book.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return book, nil
}

func (db *PostgresDB) GetBookByID(ctx context.Context, id int) (*models.Book, error) {
	query := `
		SELECT id, title, author, subject, class_name, file_url, COALESCE(cover_url, ''), downloads, uploaded_by, created_at
		FROM books WHERE id = $1`

	book := &models.Book{}
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&book.ID, &book.Title, &book.Author, &book.Subject, &book.ClassName, &book.FileURL, &book.CoverURL, &book.Downloads, &book.UploadedBy, &book.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return book, nil
}

func (db *PostgresDB) ListBooks(ctx context.Context, className, subject string) ([]*models.Book, error) {
	query := `
		SELECT id, title, author, subject, class_name, file_url, COALESCE(cover_url, ''), downloads, uploaded_by, created_at
		FROM books
		WHERE ($1 = '' OR class_name = $1) AND ($2 = '' OR subject = $2)
		ORDER BY title`

	rows, err := db.pool.Query(ctx, query, className, subject)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		book := &models.Book{}
		if err := rows.Scan(&book.ID, &book.Title, &book.Author, &book.Subject, &book.ClassName, &book.FileURL, &book.CoverURL, &book.Downloads, &book.UploadedBy, &book.CreatedAt); err != nil {
			return nil, err
		}
		books = append(books, book)
	}

	return books, nil
}

func (db *PostgresDB) IncrementDownloads(ctx context.Context, bookID int) error {
	query := `UPDATE books SET downloads = downloads + 1 WHERE id = $1`
	_, err := db.pool.Exec(ctx, query, bookID)
	return err
}

func (db *PostgresDB) DeleteBook(ctx context.Context, bookID int) error {
	query := `DELETE FROM books WHERE id = $1`
	_, err := db.pool.Exec(ctx, query, bookID)
	return err
}

// Book Request Repository Implementation
func (db *PostgresDB) CreateBookRequest(ctx context.Context, req *models.CreateBookRequestRequest, requesterID int) (*models.BookRequest, error) {
	query := `
		INSERT INTO book_requests (title, author, reason, status, requested_by, created_at, updated_at)
		VALUES ($1, $2, $3, 'pending', $4, NOW(), NOW())
		RETURNING id, title, COALESCE(author, ''), COALESCE(reason, ''), status, requested_by, created_at, updated_at`

	request := &models.BookRequest{}
	err := db.pool.QueryRow(ctx, query, req.Title, req.Author, req.Reason, requesterID).Scan(
		&request.ID, &request.Title, &request.Author, &request.Reason, &request.Status, &request.RequestedBy, &request.CreatedAt, &request.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create book request: %w", err)
	}

	return request, nil
}

func (db *PostgresDB) GetBookRequestByID(ctx context.Context, id int) (*models.BookRequest, error) {
	query := `
		SELECT r.id, r.title, COALESCE(r.author, ''), COALESCE(r.reason, ''), r.status, r.requested_by, u.full_name, r.created_at, r.updated_at
		FROM book_requests r
		JOIN users u ON r.requested_by = u.id
		WHERE r.id = $1`

	request := &models.BookRequest{}
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&request.ID, &request.Title, &request.Author, &request.Reason, &request.Status, &request.RequestedBy, &request.RequesterName, &request.CreatedAt, &request.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return request, nil
}

func (db *PostgresDB) ListBookRequests(ctx context.Context, status string) ([]*models.BookRequest, error) {
	query := `
		SELECT r.id, r.title, COALESCE(r.author, ''), COALESCE(r.reason, ''), r.status, r.requested_by, u.full_name, r.created_at, r.updated_at
		FROM book_requests r
		JOIN users u ON r.requested_by = u.id
		WHERE ($1 = '' OR r.status = $1)
		ORDER BY r.created_at DESC`

	rows, err := db.pool.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.BookRequest
	for rows.Next() {
		request := &models.BookRequest{}
		if err := rows.Scan(&request.ID, &request.Title, &request.Author, &request.Reason, &request.Status, &request.RequestedBy, &request.RequesterName, &request.CreatedAt, &request.UpdatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	return requests, nil
}

func (db *PostgresDB) UpdateRequestStatus(ctx context.Context, requestID int, status string) error {
	query := `UPDATE book_requests SET status = $2, updated_at = NOW() WHERE id = $1`
	tag, err := db.pool.Exec(ctx, query, requestID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("request not found")
	}
	return nil
}

// Task Repository Implementation
func (db *PostgresDB) CreateTask(ctx context.Context, req *models.CreateTaskRequest, creatorID int) (*models.Task, error) {
	query := `
		INSERT INTO tasks (title, description, status, created_by, assigned_to, due_date, created_at, updated_at)
		VALUES ($1, $2, 'todo', $3, $4, $5, NOW(), NOW())
		RETURNING id, title, COALESCE(description, ''), status, created_by, assigned_to, due_date, created_at, updated_at`

	task := &models.Task{}
	err := db.pool.QueryRow(ctx, query, req.Title, req.Description, creatorID, req.AssignedTo, req.DueDate).Scan(
		&task.ID, &task.Title, &task.Description, &task.Status, &task.CreatedBy, &task.AssignedTo, &task.DueDate, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

func (db *PostgresDB) GetTaskByID(ctx context.Context, id int) (*models.Task, error) {
	query := `
		SELECT t.id, t.title, COALESCE(t.description, ''), t.status, t.created_by, t.assigned_to, COALESCE(u.full_name, ''), t.due_date, t.created_at, t.updated_at
		FROM tasks t
		LEFT JOIN users u ON t.assigned_to = u.id
		WHERE t.id = $1`

	task := &models.Task{}
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&task.ID, &task.Title, &task.Description, &task.Status, &task.CreatedBy, &task.AssignedTo, &task.AssigneeName, &task.DueDate, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return task, nil
}

func (db *PostgresDB) ListTasks(ctx context.Context, status string) ([]*models.Task, error) {
	query := `
		SELECT t.id, t.title, COALESCE(t.description, ''), t.status, t.created_by, t.assigned_to, COALESCE(u.full_name, ''), t.due_date, t.created_at, t.updated_at
		FROM tasks t
		LEFT JOIN users u ON t.assigned_to = u.id
		WHERE ($1 = '' OR t.status = $1)
		ORDER BY t.created_at DESC`

	rows, err := db.pool.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task := &models.Task{}
		if err := rows.Scan(&task.ID, &task.Title, &task.Description, &task.Status, &task.CreatedBy, &task.AssignedTo, &task.AssigneeName, &task.DueDate, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

func (db *PostgresDB) UpdateTask(ctx context.Context, taskID int, req *models.UpdateTaskRequest) (*models.Task, error) {
	query := `
		UPDATE tasks SET
			title = COALESCE(NULLIF($2, ''), title),
			description = COALESCE(NULLIF($3, ''), description),
			status = COALESCE(NULLIF($4, ''), status),
			assigned_to = COALESCE($5, assigned_to),
			due_date = COALESCE($6, due_date),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, title, COALESCE(description, ''), status, created_by, assigned_to, due_date, created_at, updated_at`

	task := &models.Task{}
	err := db.pool.QueryRow(ctx, query, taskID, req.Title, req.Description, req.Status, req.AssignedTo, req.DueDate).Scan(
		&task.ID, &task.Title, &task.Description, &task.Status, &task.CreatedBy, &task.AssignedTo, &task.DueDate, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

func (db *PostgresDB) AssignTask(ctx context.Context, taskID, userID int) error {
	query := `UPDATE tasks SET assigned_to = $2, updated_at = NOW() WHERE id = $1`
	tag, err := db.pool.Exec(ctx, query, taskID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task not found")
	}
	return nil
}

func (db *PostgresDB) DeleteTask(ctx context.Context, taskID int) error {
	query := `DELETE FROM tasks WHERE id = $1`
	_, err := db.pool.Exec(ctx, query, taskID)
	return err
}

// Activity Repository Implementation
func (db *PostgresDB) RecordActivity(ctx context.Context, userID int, action, detail string) error {
	query := `INSERT INTO activities (user_id, action, detail, created_at) VALUES ($1, $2, $3, NOW())`
	_, err := db.pool.Exec(ctx, query, userID, action, detail)
	return err
}

func (db *PostgresDB) ListRecentActivities(ctx context.Context, limit int) ([]*models.Activity, error) {
	query := `
		SELECT a.id, a.user_id, u.full_name, a.action, COALESCE(a.detail, ''), a.created_at
		FROM activities a
		JOIN users u ON a.user_id = u.id
		ORDER BY a.created_at DESC
		LIMIT $1`

	rows, err := db.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		activity := &models.Activity{}
		if err := rows.Scan(&activity.ID, &activity.UserID, &activity.UserName, &activity.Action, &activity.Detail, &activity.CreatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}

	return activities, nil
}

// Document Repository Implementation
func (db *PostgresDB) CreateDocument(ctx context.Context, req *models.CreateDocumentRequest, creatorID int) (*models.Document, error) {
	query := `
		INSERT INTO documents (title, content, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, title, content, created_by, created_at, updated_at`

	doc := &models.Document{}
	err := db.pool.QueryRow(ctx, query, req.Title, req.Content, creatorID).Scan(
		&doc.ID, &doc.Title, &doc.Content, &doc.CreatedBy, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	return doc, nil
}

func (db *PostgresDB) GetDocumentByID(ctx context.Context, id int) (*models.Document, error) {
	query := `SELECT id, title, content, created_by, created_at, updated_at FROM documents WHERE id = $1`

	doc := &models.Document{}
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&doc.ID, &doc.Title, &doc.Content, &doc.CreatedBy, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

func (db *PostgresDB) ListDocuments(ctx context.Context) ([]*models.Document, error) {
	query := `SELECT id, title, content, created_by, created_at, updated_at FROM documents ORDER BY updated_at DESC`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc := &models.Document{}
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.CreatedBy, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

func (db *PostgresDB) UpdateDocumentContent(ctx context.Context, documentID int, content string) error {
	query := `UPDATE documents SET content = $2, updated_at = NOW() WHERE id = $1`
	tag, err := db.pool.Exec(ctx, query, documentID, content)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document not found")
	}
	return nil
}

func (db *PostgresDB) AppendOperation(ctx context.Context, documentID, userID int, req *models.AppendOperationRequest) (*models.DocumentOperation, error) {
	query := `
		INSERT INTO document_operations (document_id, user_id, changes, position, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, document_id, user_id, changes, position, created_at`

	op := &models.DocumentOperation{}
	err := db.pool.QueryRow(ctx, query, documentID, userID, req.Changes, req.Position).Scan(
		&op.ID, &op.DocumentID, &op.UserID, &op.Changes, &op.Position, &op.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append operation: %w", err)
	}

	return op, nil
}

func (db *PostgresDB) ListOperations(ctx context.Context, documentID, limit int) ([]*models.DocumentOperation, error) {
	query := `
		SELECT id, document_id, user_id, changes, position, created_at
		FROM document_operations
		WHERE document_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := db.pool.Query(ctx, query, documentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ops []*models.DocumentOperation
	for rows.Next() {
		op := &models.DocumentOperation{}
		if err := rows.Scan(&op.ID, &op.DocumentID, &op.UserID, &op.Changes, &op.Position, &op.CreatedAt); err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}

	// Reverse to show oldest first
	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}

	return ops, nil
}
