package http

import (
	"log/slog"
	"os"

	"github.com/nimbus-hr/attendance-backend-go/internal/handler/http/middleware"
	"github.com/nimbus-hr/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	jwtService jwt.Service,
	attendanceHandler AttendanceHandler,
	overtimeHandler OvertimeHandler,
	correctionHandler TimeCorrectionHandler,
	leaveHandler LeaveHandler,
	payrollHandler PayrollHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "nimbus-attendance"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/clock", attendanceHandler.ClockEvent)
				r.Route("/{employeeID}", func(r chi.Router) {
					r.Get("/clock-state", attendanceHandler.ClockState)
					r.Get("/day/{date}", attendanceHandler.GetDay)
					r.Get("/history", attendanceHandler.History)
					r.Get("/summary", attendanceHandler.Summary)
				})
			})

			r.Route("/overtime", func(r chi.Router) {
				r.Post("/", overtimeHandler.Create)
				r.Get("/", overtimeHandler.List)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", overtimeHandler.Get)
					r.Post("/approve", overtimeHandler.Approve)
					r.Delete("/", overtimeHandler.Delete)
				})
			})

			r.Route("/time-corrections", func(r chi.Router) {
				r.Post("/", correctionHandler.Create)
				r.Get("/", correctionHandler.List)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", correctionHandler.Get)
					r.Post("/approve", correctionHandler.Approve)
					r.Delete("/", correctionHandler.Delete)
				})
			})

			r.Route("/leave/{employeeID}", func(r chi.Router) {
				r.Get("/balances", leaveHandler.Balances)
				r.Put("/balances", leaveHandler.SetBalance)
				r.Post("/accrue", leaveHandler.Accrue)
				r.Post("/consume", leaveHandler.Consume)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Route("/periods/{periodID}", func(r chi.Router) {
					r.Post("/generate", payrollHandler.Generate)
					r.Get("/records", payrollHandler.ListByPeriod)
					r.Get("/totals", payrollHandler.PeriodTotals)
				})
				r.Route("/records/{recordID}", func(r chi.Router) {
					r.Post("/process", payrollHandler.Process)
					r.Post("/pay", payrollHandler.MarkPaid)
				})
			})
		})
	})

	return r
}
