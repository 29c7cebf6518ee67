package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/hrms/apps/api/echo"
	"github.com/trezcool/hrms/core"
	"github.com/trezcool/hrms/core/attendance"
	"github.com/trezcool/hrms/core/leave"
	"github.com/trezcool/hrms/core/payroll"
	"github.com/trezcool/hrms/core/report"
	"github.com/trezcool/hrms/core/session"
	"github.com/trezcool/hrms/core/user"
	emailsvc "github.com/trezcool/hrms/services/email"
	logsvc "github.com/trezcool/hrms/services/logger"
	"github.com/trezcool/hrms/storage/kvstore"
	"github.com/trezcool/hrms/storage/kvstore/memory"
	"github.com/trezcool/hrms/storage/seed"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	storeLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "STORE : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	hasher, err := user.NewHasher(conf.PasswordHasher)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up password hasher: %v", err), err)
	}

	// set up store
	ctx := context.Background()
	store, closeStore, err := kvstore.Open(ctx, conf.Store)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening %s store: %v", conf.Store.Engine, err), err)
	}
	defer func() {
		if err = closeStore(); err != nil {
			storeLogger.Error("Failed to close", err)
		}
	}()

	seeded, err := seed.Initialize(ctx, store, seed.Options{Hasher: hasher})
	if err != nil {
		logger.Fatal(fmt.Sprintf("seeding store: %v", err), err)
	}
	storeLogger.Info("Seeded", map[string]interface{}{
		"users":      seeded.Users,
		"attendance": seeded.Attendance,
		"leave":      seeded.Leave,
	})

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	attendance.InitValidators()
	leave.InitValidators()

	// set up services
	mailSvc := emailsvc.NewService(conf, logger)
	usrSvc := user.NewService(store)
	attendanceSvc := attendance.NewService(store)
	leaveSvc := leave.NewService(store, usrSvc, mailSvc, logger)
	// sessions belong to the running process
	sessions := session.NewManager(memory.New(), usrSvc, hasher, validate, translator)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			Sessions:      sessions,
			UserSvc:       usrSvc,
			AttendanceSvc: attendanceSvc,
			LeaveSvc:      leaveSvc,
			PayrollSvc:    payroll.NewService(usrSvc, validate, translator),
			ReportSvc:     report.NewService(usrSvc, attendanceSvc, leaveSvc),
			Validate:      validate,
			Translator:    translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
