package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/tally-hr/peopleops-backend-go/internal/config"
	appHTTP "github.com/tally-hr/peopleops-backend-go/internal/handler/http"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/clock"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/cron"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/database"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/jwt"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/timeutil"
	"github.com/tally-hr/peopleops-backend-go/internal/repository/postgresql"
	attendanceService "github.com/tally-hr/peopleops-backend-go/internal/service/attendance"
	leaveService "github.com/tally-hr/peopleops-backend-go/internal/service/leave"
	policyService "github.com/tally-hr/peopleops-backend-go/internal/service/policy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "peopleops"),
	)

	zone, err := timeutil.NewZone(cfg.Attendance.TimezoneName)
	if err != nil {
		log.Fatal("Failed to load timezone:", err)
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)
	dayRepo := postgresql.NewDayRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	workweekRepo := postgresql.NewWorkweekPolicyRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)

	txManager := postgresql.NewTxManager(db)
	systemClock := clock.NewSystemClock()

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiration)
	policySvc := policyService.NewPolicyService(workweekRepo, holidayRepo)
	ledger := leaveService.NewLedger(leaveBalanceRepo)

	attendanceSvc := attendanceService.NewAttendanceService(
		txManager,
		sessionRepo,
		dayRepo,
		employeeRepo,
		policySvc,
		zone,
		systemClock,
		cfg.Attendance.DailyExpectedSeconds,
		logger,
	)
	leaveSvc := leaveService.NewLeaveService(
		txManager,
		leaveTypeRepo,
		leaveBalanceRepo,
		leaveRequestRepo,
		employeeRepo,
		ledger,
		cfg.Leave,
		logger,
	)
	requestSvc := leaveService.NewLeaveRequestService(
		txManager,
		leaveTypeRepo,
		leaveRequestRepo,
		employeeRepo,
		dayRepo,
		ledger,
		systemClock,
		cfg.Leave,
		cfg.Attendance.DailyExpectedSeconds,
		logger,
	)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc, requestSvc)
	policyHandler := appHTTP.NewPolicyHandler(policySvc)

	router := appHTTP.NewRouter(
		jwtService,
		attendanceHandler,
		leaveHandler,
		policyHandler,
	)

	if cfg.Cron.Enabled {
		scheduler := cron.NewScheduler(logger)
		cron.RegisterAttendanceRecompute(scheduler, attendanceSvc, zone, systemClock, cfg.Cron.RecomputeInterval)
		cron.RegisterMonthlyAccrual(scheduler, leaveSvc, zone, systemClock, cfg.Leave, cfg.Cron.AccrualInterval)
		scheduler.Start()
		defer scheduler.Stop()
	}

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
