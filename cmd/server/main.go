package main

import (
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/auth"
	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/config"
	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/database"
	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/handlers"
	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/relay"
	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/services"
	"github.com/GENZ-ARSH/GENZ-CORE-sub000/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresDB(cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize services
	authService := auth.NewService(db, cfg)
	libraryService := services.NewLibraryService(db)
	taskService := services.NewTaskService(db)
	documentService := services.NewDocumentService(db)

	// Initialize the collaboration relay
	router := relay.NewRouter(relay.NewRegistry(), relay.NewDirectory())

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(authService)
	libraryHandlers := handlers.NewLibraryHandlers(libraryService, authService)
	taskHandlers := handlers.NewTaskHandlers(taskService, authService)
	documentHandlers := handlers.NewDocumentHandlers(documentService, authService)
	collabHandlers := handlers.NewCollabHandlers(authService, router, cfg.Relay)

	// Setup routes
	mux := http.NewServeMux()
	setupRoutes(mux, authHandlers, libraryHandlers, taskHandlers, documentHandlers, collabHandlers)

	// Create server
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      corsMiddleware(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	logger.Info("🚀 Server started on http://localhost%s", cfg.Server.Port)
	logger.Info("📡 WebSocket endpoint: ws://localhost%s/ws", cfg.Server.Port)
	printAPIEndpoints()

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Server shutting down...")
}

func setupRoutes(mux *http.ServeMux, authHandlers *handlers.AuthHandlers, libraryHandlers *handlers.LibraryHandlers, taskHandlers *handlers.TaskHandlers, documentHandlers *handlers.DocumentHandlers, collabHandlers *handlers.CollabHandlers) {
	// Auth routes
	mux.HandleFunc("/login", authHandlers.Login)
	mux.HandleFunc("/register", authHandlers.Register)
	mux.HandleFunc("/me", authHandlers.Me)
	mux.HandleFunc("/users", authHandlers.ListUsers)

	// Book routes
	mux.HandleFunc("/books", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			libraryHandlers.ListBooks(w, r)
		case http.MethodPost:
			libraryHandlers.CreateBook(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Book sub-routes
	mux.HandleFunc("/books/", func(w http.ResponseWriter, r *http.Request) {
		parts := splitPath(r)
		if len(parts) < 3 || parts[2] == "" {
			http.Error(w, "invalid path", http.StatusBadRequest)
			return
		}

		// /books/{id}/download
		if len(parts) == 4 && parts[3] == "download" && r.Method == http.MethodPost {
			libraryHandlers.DownloadBook(w, r)
			return
		}

		// /books/{id}
		if len(parts) == 3 {
			switch r.Method {
			case http.MethodGet:
				libraryHandlers.GetBook(w, r)
				return
			case http.MethodDelete:
				libraryHandlers.DeleteBook(w, r)
				return
			}
		}

		http.Error(w, "endpoint not found", http.StatusNotFound)
	})

	// Book request routes
	mux.HandleFunc("/requests", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			libraryHandlers.ListBookRequests(w, r)
		case http.MethodPost:
			libraryHandlers.CreateBookRequest(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// /requests/{id}/status
	mux.HandleFunc("/requests/", func(w http.ResponseWriter, r *http.Request) {
		parts := splitPath(r)
		if len(parts) == 4 && parts[3] == "status" && r.Method == http.MethodPost {
			libraryHandlers.UpdateRequestStatus(w, r)
			return
		}

		http.Error(w, "endpoint not found", http.StatusNotFound)
	})

	// Task routes
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			taskHandlers.ListTasks(w, r)
		case http.MethodPost:
			taskHandlers.CreateTask(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Task sub-routes
	mux.HandleFunc("/tasks/", func(w http.ResponseWriter, r *http.Request) {
		parts := splitPath(r)
		if len(parts) < 3 || parts[2] == "" {
			http.Error(w, "invalid path", http.StatusBadRequest)
			return
		}

		// /tasks/{id}/assign
		if len(parts) == 4 && parts[3] == "assign" && r.Method == http.MethodPost {
			taskHandlers.AssignTask(w, r)
			return
		}

		// /tasks/{id}
		if len(parts) == 3 {
			switch r.Method {
			case http.MethodGet:
				taskHandlers.GetTask(w, r)
				return
			case http.MethodPut:
				taskHandlers.UpdateTask(w, r)
				return
			case http.MethodDelete:
				taskHandlers.DeleteTask(w, r)
				return
			}
		}

		http.Error(w, "endpoint not found", http.StatusNotFound)
	})

	// Activity feed
	mux.HandleFunc("/activities", libraryHandlers.ListActivities)

	// Document routes
	mux.HandleFunc("/documents", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			documentHandlers.ListDocuments(w, r)
		case http.MethodPost:
			documentHandlers.CreateDocument(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Document sub-routes
	mux.HandleFunc("/documents/", func(w http.ResponseWriter, r *http.Request) {
		parts := splitPath(r)
		if len(parts) < 3 || parts[2] == "" {
			http.Error(w, "invalid path", http.StatusBadRequest)
			return
		}

		// /documents/{id}/operations
		if len(parts) == 4 && parts[3] == "operations" {
			switch r.Method {
			case http.MethodGet:
				documentHandlers.ListOperations(w, r)
				return
			case http.MethodPost:
				documentHandlers.AppendOperation(w, r)
				return
			}
		}

		// /documents/{id}
		if len(parts) == 3 {
			switch r.Method {
			case http.MethodGet:
				documentHandlers.GetDocument(w, r)
				return
			case http.MethodPut:
				documentHandlers.UpdateContent(w, r)
				return
			}
		}

		http.Error(w, "endpoint not found", http.StatusNotFound)
	})

	// WebSocket route
	mux.HandleFunc("/ws", collabHandlers.HandleWebSocket)
	mux.HandleFunc("/collab/stats", collabHandlers.Stats)
}

func splitPath(r *http.Request) []string {
	return strings.Split(r.URL.Path, "/")
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func printAPIEndpoints() {
	logger.Info("🔗 API endpoints:")
	logger.Info("   POST /login")
	logger.Info("   POST /register")
	logger.Info("   GET  /me")
	logger.Info("   GET  /users")
	logger.Info("   GET  /books  POST /books")
	logger.Info("   GET  /books/{id}  DELETE /books/{id}  POST /books/{id}/download")
	logger.Info("   GET  /requests  POST /requests  POST /requests/{id}/status")
	logger.Info("   GET  /tasks  POST /tasks")
	logger.Info("   GET  /tasks/{id}  PUT /tasks/{id}  DELETE /tasks/{id}  POST /tasks/{id}/assign")
	logger.Info("   GET  /activities")
	logger.Info("   GET  /documents  POST /documents")
	logger.Info("   GET  /documents/{id}  PUT /documents/{id}")
	logger.Info("   GET  /documents/{id}/operations  POST /documents/{id}/operations")
	logger.Info("   GET  /collab/stats")
}
