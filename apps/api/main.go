package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	echoapi "github.com/trezcool/personal/apps/api/echo"
	"github.com/trezcool/personal/core"
	"github.com/trezcool/personal/core/identity"
	"github.com/trezcool/personal/core/training"
	identitysvc "github.com/trezcool/personal/services/identity"
	logsvc "github.com/trezcool/personal/services/logger"
	"github.com/trezcool/personal/storage/database"
	inmemdb "github.com/trezcool/personal/storage/database/inmem"
	sqlxrepos "github.com/trezcool/personal/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	std, err := newZapLogger(conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setting up logger: %v\n", err)
		os.Exit(1)
	}
	logger := logsvc.NewRollbarLogger(std.Named("API"), conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	defer logger.Close()

	dbLogger := logsvc.NewRollbarLogger(std.Named("DB"), conf)
	dbLogger.Enable(!conf.Debug && conf.RollbarToken != "")

	if conf.Identity.BaseURL == "" {
		logger.Fatal("identity provider base URL is not configured")
	}
	var provider identity.Provider = identitysvc.NewSupabaseProvider(conf)

	// set up DB & repos
	var trainingRepo training.Repository
	if conf.Database.URL == "" && conf.Debug {
		logger.Warn("no database configured, using the in-memory store")
		memDB := inmemdb.Open()
		trainingRepo = inmemdb.NewTrainingRepository(memDB)
		// profiles live with the identity provider; keep a local copy of everyone who logs in
		provider = identity.MirrorProfiles(provider, inmemdb.NewProfileRepository(memDB))
	} else {
		db, err := database.Open(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		defer func() {
			if err = db.Close(); err != nil {
				dbLogger.Error("Failed to close", err)
			}
		}()
		if err = database.Migrate(db.DB); err != nil {
			logger.Fatal(fmt.Sprintf("migrating database: %v", err), err)
		}
		trainingRepo = sqlxrepos.NewTrainingRepository(db)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	training.InitValidators(validate, translator)

	// set up services
	identitySvc := identity.NewService(
		provider,
		identity.NewSessionStore(),
		validate,
		logger,
	)
	trainingSvc := training.NewService(trainingRepo, validate)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			IdentitySvc: identitySvc,
			TrainingSvc: trainingSvc,
			Validate:    validate,
			Translator:  translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newZapLogger(conf *core.Config) (*zap.Logger, error) {
	if conf.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
