package main

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/trezcool/personal/core"
	"github.com/trezcool/personal/core/identity"
	"github.com/trezcool/personal/core/training"
	identitysvc "github.com/trezcool/personal/services/identity"
	logsvc "github.com/trezcool/personal/services/logger"
	"github.com/trezcool/personal/storage/database"
	sqlxrepos "github.com/trezcool/personal/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	std, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "setting up logger: %v\n", err)
		os.Exit(1)
	}
	logger := logsvc.NewRollbarLogger(std.Named("ADMIN"), conf)
	logger.Enable(false)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(logger, err)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	training.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		db:         db.DB,
		profileSvc: identity.NewProfileService(sqlxrepos.NewProfileRepository(db), validate),
		identitySvc: identity.NewService(
			identitysvc.NewSupabaseProvider(conf),
			identity.NewSessionStore(),
			validate,
			logger,
		),
		out: os.Stdout,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	logger.Close()
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(logger *logsvc.RollbarLogger, err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
