package main

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/hrms/core"
	"github.com/trezcool/hrms/core/attendance"
	"github.com/trezcool/hrms/core/leave"
	"github.com/trezcool/hrms/core/report"
	"github.com/trezcool/hrms/core/user"
	logsvc "github.com/trezcool/hrms/services/logger"
	"github.com/trezcool/hrms/storage/kvstore"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	hasher, err := user.NewHasher(conf.PasswordHasher)
	if err != nil {
		logger.Fatal("setting up password hasher", err)
	}

	// set up store
	store, closeStore, err := kvstore.Open(context.Background(), conf.Store)
	if err != nil {
		logger.Fatal("opening store", err)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	usrSvc := user.NewService(store)
	attendanceSvc := attendance.NewService(store)

	// start CLI
	cli := commandLine{
		store:      store,
		usrSvc:     usrSvc,
		reportSvc:  report.NewService(usrSvc, attendanceSvc, leave.NewService(store, nil, nil, nil)),
		hasher:     hasher,
		validate:   validate,
		translator: translator,
		out:        os.Stdout,
	}
	err = cli.run(os.Args)
	if cErr := closeStore(); cErr != nil {
		logger.Error("closing store", cErr)
	}
	if err != nil {
		if err != errHelp {
			logger.Error(err.Error(), err)
		}
		os.Exit(1)
	}
}
