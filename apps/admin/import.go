package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core/importer"
)

func (cli *commandLine) importCommand() *ffcli.Command {
	fs := cli.newFlagSet("import")
	file := fs.String("file", "", "Path of the .xlsx workbook")
	onlyNew := fs.Bool("solo-nuevos", false, "Skip the alumnos that already exist instead of updating them")

	cmd := &ffcli.Command{
		Name:       "import",
		ShortUsage: "admin import -file FILE.xlsx [-solo-nuevos]",
		ShortHelp:  "Import alumnos, grades, inteligencias and CI from an Excel workbook",
		FlagSet:    fs,
		Options:    envOptions(),
	}
	cmd.Exec = func(ctx context.Context, _ []string) error {
		if *file == "" {
			return cli.usage(cmd)
		}
		res, err := cli.importFile(ctx, *file, !*onlyNew)
		if err != nil {
			return err
		}
		fmt.Fprintln(cli.out, res.Mensaje)
		fmt.Fprintf(cli.out, "  alumnos: %d processed, %d created, %d updated\n",
			res.AlumnosProcesados, res.AlumnosCreados, res.AlumnosActualizados)
		fmt.Fprintf(cli.out, "  cursos: %d, competencias: %d\n", res.CursosProcesados, res.CompetenciasProcesadas)
		fmt.Fprintf(cli.out, "  inteligencias: %d, CI: %d\n", res.Inteligencias.Procesadas, res.CI.AlumnosConCI)
		return nil
	}
	return cmd
}

func (cli *commandLine) importFile(ctx context.Context, path string, update bool) (importer.Result, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return importer.Result{}, err
	}
	if err = importer.CheckUpload(filepath.Base(path), fi.Size(), 0); err != nil {
		return importer.Result{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return importer.Result{}, err
	}
	defer func() { _ = f.Close() }()

	res, err := cli.importerSvc.Import(ctx, f, update)
	return res, errors.Wrap(err, path)
}
