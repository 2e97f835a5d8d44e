package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/gestionschool/gestionecole/core"
	"github.com/gestionschool/gestionecole/core/school"
	logsvc "github.com/gestionschool/gestionecole/services/logger"
	"github.com/gestionschool/gestionecole/storage/database"
)

func main() {
	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)

	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	if err := conf.Validate(validate, translator); err != nil {
		logger.Fatal(fmt.Sprintf("invalid configuration: %v", err), err)
	}

	// set up DB
	ctx := context.Background()
	db, err := database.Open(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}

	// start CLI
	cli := commandLine{
		db:   db,
		svcs: school.NewServices(database.NewSchoolRepositories(db)),
		out:  os.Stdout,
	}
	err = cli.run(ctx, os.Args)
	if cErr := db.Close(ctx); cErr != nil {
		logger.Error("Failed to close database", cErr)
	}
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		os.Exit(1)
	}
}
