package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof" // register the /debug/pprof handlers
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/trezcool/tutoria/apps/api/echo"
	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/alumno"
	"github.com/trezcool/tutoria/core/chat"
	"github.com/trezcool/tutoria/core/ci"
	"github.com/trezcool/tutoria/core/clustering"
	"github.com/trezcool/tutoria/core/competencia"
	"github.com/trezcool/tutoria/core/curso"
	"github.com/trezcool/tutoria/core/importer"
	"github.com/trezcool/tutoria/core/inteligencia"
	"github.com/trezcool/tutoria/core/profesor"
	"github.com/trezcool/tutoria/core/tutor"
	emailsvc "github.com/trezcool/tutoria/services/email"
	llmsvc "github.com/trezcool/tutoria/services/llm"
	logsvc "github.com/trezcool/tutoria/services/logger"
	"github.com/trezcool/tutoria/storage/database"
	sqlxrepos "github.com/trezcool/tutoria/storage/database/sqlx"
	"github.com/trezcool/tutoria/storage/inmem"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	zl, err := logsvc.NewZapLogger(conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setting up zap: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zl.Sync() }()

	logger := logsvc.NewRollbarLogger(logsvc.Component(zl, "API"), conf)
	dbLogger := logsvc.NewRollbarLogger(logsvc.Component(zl, "DB"), conf)

	ctx := context.Background()

	db, err := setUpDB(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()

	completer, err := llmsvc.New(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up AI provider: %v", err), err)
	}
	mailSvc := emailsvc.New(conf, logger)

	alumnoRepo := sqlxrepos.NewAlumnoRepository(db)
	cursoRepo := sqlxrepos.NewCursoRepository(db)
	compRepo := sqlxrepos.NewCompetenciaRepository(db)
	intelRepo := sqlxrepos.NewInteligenciaRepository(db)

	alumnoSvc := alumno.NewService(db, alumnoRepo, intelRepo, compRepo)
	tutorSvc := tutor.NewService(alumnoSvc, completer, inmem.NewConversationStore(), mailSvc, conf.AI, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	profesor.RegisterValidators(validate, translator)

	core.ParseEmailTemplates(conf, logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("ai_provider").Set(conf.AI.Provider)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,

		AlumnoSvc:       alumnoSvc,
		CursoSvc:        curso.NewService(cursoRepo),
		CompetenciaSvc:  competencia.NewService(compRepo, cursoRepo),
		InteligenciaSvc: inteligencia.NewService(intelRepo, alumnoRepo),
		CISvc:           ci.NewService(alumnoRepo),
		ProfesorSvc:     profesor.NewService(sqlxrepos.NewProfesorRepository(db), cursoRepo, mailSvc, conf),
		TutorSvc:        tutorSvc,
		ChatSvc:         chat.NewService(sqlxrepos.NewChatRepository(db), alumnoSvc, tutorSvc, completer, conf, logger),
		ClusteringSvc:   clustering.NewService(alumnoSvc, conf, logger),
		ImporterSvc:     importer.NewService(db, alumnoSvc, alumnoRepo, cursoRepo, compRepo, intelRepo, logger),
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(ctx, conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(ctx context.Context, conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(ctx, db, conf.Database.Engine); err != nil {
		_ = db.Close()
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
