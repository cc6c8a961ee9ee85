package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/institute-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/institute-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/institute-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
}

func NewRouter(JWTService jwt.Service, attendanceHandler AttendanceHandler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{DegradedHeader},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/attendance", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

		r.Post("/insert-daily", attendanceHandler.InsertDaily)
		r.Get("/report", attendanceHandler.Report)
		r.Get("/daily", attendanceHandler.Daily)
		r.Get("/all-daily", attendanceHandler.AllDaily)
		r.Get("/user-report", attendanceHandler.UserReport)
		r.Get("/all-users-summary", attendanceHandler.AllUsersSummary)
		r.Get("/punch-report", attendanceHandler.PunchReport)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	return r
}
