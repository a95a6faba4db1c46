package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/nimbus-hr/attendance-backend-go/internal/config"
	appHTTP "github.com/nimbus-hr/attendance-backend-go/internal/handler/http"
	"github.com/nimbus-hr/attendance-backend-go/internal/pkg/database"
	"github.com/nimbus-hr/attendance-backend-go/internal/pkg/jwt"
	"github.com/nimbus-hr/attendance-backend-go/internal/pkg/storage"
	"github.com/nimbus-hr/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/nimbus-hr/attendance-backend-go/internal/service/attendance"
	"github.com/nimbus-hr/attendance-backend-go/internal/service/file"
	leaveService "github.com/nimbus-hr/attendance-backend-go/internal/service/leave"
	overtimeService "github.com/nimbus-hr/attendance-backend-go/internal/service/overtime"
	payrollService "github.com/nimbus-hr/attendance-backend-go/internal/service/payroll"
	timeCorrectionService "github.com/nimbus-hr/attendance-backend-go/internal/service/timecorrection"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	logLevel := slog.LevelInfo
	if cfg.App.LogLevel == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	txManager := postgresql.NewTxManager(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	recordRepo := postgresql.NewAttendanceRecordRepository(db)
	sessionRepo := postgresql.NewAttendanceSessionRepository(db)
	overtimeRepo := postgresql.NewOvertimeRepository(db)
	correctionRepo := postgresql.NewTimeCorrectionRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	fileService := file.NewFileService(fileStorage)
	timelineService := attendanceService.NewTimelineService(
		txManager,
		recordRepo,
		sessionRepo,
		employeeRepo,
		fileService,
		logger,
	)
	overtimeSvc := overtimeService.NewRequestService(
		txManager,
		overtimeRepo,
		recordRepo,
		sessionRepo,
		employeeRepo,
		leaveBalanceRepo,
		settingsRepo,
		cfg.Payroll.OvertimeLeaveAccrual,
		logger,
	)
	correctionSvc := timeCorrectionService.NewRequestService(
		txManager,
		correctionRepo,
		recordRepo,
		sessionRepo,
		employeeRepo,
	)
	ledgerService := leaveService.NewLedgerService(leaveBalanceRepo, employeeRepo)
	payrollSvc := payrollService.NewService(txManager, payrollRepo, employeeRepo, logger)

	attendanceHandler := appHTTP.NewAttendanceHandler(timelineService)
	overtimeHandler := appHTTP.NewOvertimeHandler(overtimeSvc)
	correctionHandler := appHTTP.NewTimeCorrectionHandler(correctionSvc)
	leaveHandler := appHTTP.NewLeaveHandler(ledgerService)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(
		JWTService,
		attendanceHandler,
		overtimeHandler,
		correctionHandler,
		leaveHandler,
		payrollHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
