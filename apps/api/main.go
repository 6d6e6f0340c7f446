package main

import (
	"context"
	"database/sql"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/pivotpoint/platform/apps/api/echo"
	"github.com/pivotpoint/platform/core"
	"github.com/pivotpoint/platform/core/comms"
	"github.com/pivotpoint/platform/core/evaluation"
	"github.com/pivotpoint/platform/core/practicum"
	emailsvc "github.com/pivotpoint/platform/services/email"
	sendgridmail "github.com/pivotpoint/platform/services/email/sendgrid"
	logsvc "github.com/pivotpoint/platform/services/logger"
	"github.com/pivotpoint/platform/storage/database"
	inmemdb "github.com/pivotpoint/platform/storage/database/inmem"
	postgresrepos "github.com/pivotpoint/platform/storage/database/postgres"
)

const dispatchInterval = time.Minute

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	// set up repositories
	var (
		evalRepo      evaluation.Repository
		practicumRepo practicum.Repository
		commsRepo     comms.Repository
	)
	if conf.Database.Engine == "postgres" {
		db, err := setUpDB(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		defer func() {
			if err = db.Close(); err != nil {
				dbLogger.Fatal("Failed to close", err)
			}
		}()

		dbx := sqlx.NewDb(db, "postgres")
		evalRepo = postgresrepos.NewEvaluationRepository(dbx)
		practicumRepo = postgresrepos.NewPracticumRepository(dbx)
		commsRepo = postgresrepos.NewCommsRepository(dbx)
	} else {
		db, err := inmemdb.Open()
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up in-memory store: %v", err), err)
		}
		evalRepo = inmemdb.NewEvaluationRepository(db)
		practicumRepo = inmemdb.NewPracticumRepository(db)
		commsRepo = inmemdb.NewCommsRepository(db)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = sendgridmail.NewService(conf, logger)
	}
	evalSvc := evaluation.NewService(evalRepo, logger)
	practicumSvc := practicum.NewService(practicumRepo)
	commsSvc := comms.NewService(commsRepo, mailSvc, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	evaluation.InitValidators(validate, translator)

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
	// Start Scheduled-Email Dispatcher

	dispatchDone := make(chan struct{})
	defer close(dispatchDone)

	go func() {
		ticker := time.NewTicker(dispatchInterval)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				if n, err := commsSvc.DispatchDue(now); err != nil {
					logger.Error(fmt.Sprintf("dispatching scheduled emails: %v", err), err)
				} else if n > 0 {
					logger.Info(fmt.Sprintf("dispatched %d scheduled email(s)", n))
				}
			case <-dispatchDone:
				return
			}
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			EvaluationSvc: evalSvc,
			PracticumSvc:  practicumSvc,
			CommsSvc:      commsSvc,
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
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
