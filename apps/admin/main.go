package main

import (
	"fmt"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/alumno"
	"github.com/trezcool/tutoria/core/clustering"
	"github.com/trezcool/tutoria/core/importer"
	"github.com/trezcool/tutoria/core/profesor"
	emailsvc "github.com/trezcool/tutoria/services/email"
	logsvc "github.com/trezcool/tutoria/services/logger"
	"github.com/trezcool/tutoria/storage/database"
	sqlxrepos "github.com/trezcool/tutoria/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	zl, err := logsvc.NewZapLogger(conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setting up zap: %v\n", err)
		os.Exit(1)
	}
	logger := logsvc.NewRollbarLogger(logsvc.Component(zl, "ADMIN"), conf)

	if err = database.CreateIfNotExist(conf); err != nil {
		logger.Fatal(fmt.Sprintf("creating database: %v", err), err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}

	enLocale := en.New()
	translator, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	profesor.RegisterValidators(validate, translator)

	alumnoRepo := sqlxrepos.NewAlumnoRepository(db)
	cursoRepo := sqlxrepos.NewCursoRepository(db)
	compRepo := sqlxrepos.NewCompetenciaRepository(db)
	intelRepo := sqlxrepos.NewInteligenciaRepository(db)
	alumnoSvc := alumno.NewService(db, alumnoRepo, intelRepo, compRepo)

	cli := commandLine{
		db:          db,
		engine:      conf.Database.Engine,
		out:         os.Stdout,
		validate:    validate,
		translator:  translator,
		profesorSvc: profesor.NewService(sqlxrepos.NewProfesorRepository(db), cursoRepo, emailsvc.New(conf, logger), conf),
		importerSvc: importer.NewService(db, alumnoSvc, alumnoRepo, cursoRepo, compRepo, intelRepo, logger),
		clusterSvc:  clustering.NewService(alumnoSvc, conf, logger),
	}
	err = cli.run(os.Args)
	_ = db.Close()
	_ = zl.Sync()
	if err != nil {
		if !errors.Is(err, errHelp) {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
