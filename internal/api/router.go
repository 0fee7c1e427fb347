package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isandoval/librarian-be/internal/api/handlers"
	"github.com/isandoval/librarian-be/internal/auth"
	"github.com/isandoval/librarian-be/internal/services"
	ws "github.com/isandoval/librarian-be/internal/websocket"
)

// RouterConfig carries the router's external knobs.
type RouterConfig struct {
	AllowedOrigin string
	UploadPath    string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(cfg RouterConfig, tokens *auth.TokenService, userService services.UserServiceProvider, bookService services.BookServiceProvider, hub *ws.Hub) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokens)
	bookHandler := handlers.NewBookHandler(bookService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)
		})

		r.Route("/book", func(r chi.Router) {
			// Single-book reads are public: detail pages render without a login.
			r.Get("/{id}", bookHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware(tokens))
				r.Get("/", bookHandler.GetAll)
				r.Post("/add", bookHandler.Add)
				r.Delete("/delete/{id}", bookHandler.Delete)
			})
		})

		// Live catalog feed
		r.Get("/ws", wsHandler.Serve)
	})

	// Uploaded cover images are served back as static files.
	fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadPath)))
	r.Get("/uploads/*", func(w http.ResponseWriter, req *http.Request) {
		fs.ServeHTTP(w, req)
	})

	return r
}
