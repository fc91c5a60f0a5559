package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/tally-hr/peopleops-backend-go/internal/handler/http/middleware"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	policyHandler PolicyHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "peopleops"),
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

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Get("/today", attendanceHandler.TodayStatus)
				r.Get("/month", attendanceHandler.MonthView)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/recompute", attendanceHandler.RecomputeRange)
					r.Post("/report", attendanceHandler.RangeReport)
					r.Route("/days/{employeeID}/{date}", func(r chi.Router) {
						r.Put("/", attendanceHandler.OverrideDay)
						r.Post("/lock", attendanceHandler.LockDay)
						r.Post("/unlock", attendanceHandler.UnlockDay)
					})
				})
			})

			r.Route("/leave", func(r chi.Router) {
				r.Route("/types", func(r chi.Router) {
					r.Get("/", leaveHandler.ListTypes)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Post("/", leaveHandler.CreateType)
						r.Put("/{id}", leaveHandler.UpdateType)
						r.Delete("/{id}", leaveHandler.DeleteType)
					})
				})

				r.Route("/balances", func(r chi.Router) {
					r.Get("/my", leaveHandler.GetMyBalances)
					r.Get("/permission-hours", leaveHandler.MonthPermissionHours)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Get("/{employeeID}", leaveHandler.ListBalances)
						r.Post("/seed", leaveHandler.SeedBalance)
						r.Post("/accrue", leaveHandler.AccrueBalance)
						r.Post("/adjust", leaveHandler.AdjustBalance)
						r.Post("/accrual-run", leaveHandler.RunAccrual)
					})
				})

				r.Route("/requests", func(r chi.Router) {
					r.Post("/", leaveHandler.Apply)
					r.Get("/my", leaveHandler.GetMyRequests)
					r.Post("/{id}/cancel", leaveHandler.Cancel)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Get("/pending", leaveHandler.ListPending)
						r.Post("/{id}/decide", leaveHandler.Decide)
					})
				})
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Route("/policies", func(r chi.Router) {
					r.Route("/workweek", func(r chi.Router) {
						r.Get("/", policyHandler.ListWorkweeks)
						r.Get("/{region}", policyHandler.GetWorkweek)
						r.Put("/{region}", policyHandler.UpsertWorkweek)
					})

					r.Route("/holidays", func(r chi.Router) {
						r.Get("/", policyHandler.ListHolidays)
						r.Post("/", policyHandler.CreateHoliday)
						r.Delete("/{id}", policyHandler.DeleteHoliday)
					})
				})
			})
		})
	})
	return r
}
