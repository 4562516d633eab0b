package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/tutoria/core/alumno"
	"github.com/trezcool/tutoria/core/clustering"
	"github.com/trezcool/tutoria/core/importer"
	"github.com/trezcool/tutoria/core/profesor"
	emailsvc "github.com/trezcool/tutoria/services/email"
	"github.com/trezcool/tutoria/tests"
)

func setup(t *testing.T) (*commandLine, testutil.Repos, *bytes.Buffer) {
	t.Helper()
	conf := testutil.NewConfig()
	logger := testutil.NopLogger{}
	db := testutil.PrepareDB(t)
	repos := testutil.NewRepos(db)
	validate, translator := testutil.NewValidator()
	alumnoSvc := alumno.NewService(db, repos.Alumno, repos.Inteligencia, repos.Competencia)

	var out bytes.Buffer
	cli := &commandLine{
		db:          db,
		engine:      conf.Database.Engine,
		out:         &out,
		validate:    validate,
		translator:  translator,
		profesorSvc: profesor.NewService(repos.Profesor, repos.Curso, emailsvc.NewConsoleServiceMock(conf, logger), conf),
		importerSvc: importer.NewService(
			db, alumnoSvc, repos.Alumno, repos.Curso, repos.Competencia, repos.Inteligencia, logger,
		),
		clusterSvc: clustering.NewService(alumnoSvc, conf, logger),
	}
	return cli, repos, &out
}

// mockPassword makes the password prompt return pwd.
func mockPassword(t *testing.T, pwd string) {
	t.Helper()
	orig := readPasswordFunc
	readPasswordFunc = func(int) ([]byte, error) { return []byte(pwd), nil }
	t.Cleanup(func() { readPasswordFunc = orig })
}

type cliTest struct {
	name       string
	args       []string // without program name
	pwd        string
	wantErr    error
	wantErrStr string
}

func runCLITests(t *testing.T, cli *commandLine, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPassword(t, tt.pwd)
			err := cli.run(append([]string{"admin"}, tt.args...))
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, errors.Cause(err))
			case tt.wantErrStr != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrStr)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func Test_commandLine_help(t *testing.T) {
	cli, _, out := setup(t)

	runCLITests(t, cli, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "help flag", args: []string{"-h"}, wantErr: errHelp},
	})
	assert.Contains(t, out.String(), "addprofesor")
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _, _ := setup(t)

	orig := gooseRunFunc
	t.Cleanup(func() { gooseRunFunc = orig })
	gooseRunFunc = func(_ context.Context, command string, db *sql.DB, dir string, args ...string) error {
		if dir != "migrations/sqlite" {
			return fmt.Errorf("unexpected dir %q", dir)
		}
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	runCLITests(t, cli, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "add_periodo", "sql"}},
	})
}

func Test_commandLine_addProfesor(t *testing.T) {
	cli, repos, out := setup(t)

	runCLITests(t, cli, []cliTest{
		{name: "no args", args: []string{"addprofesor"}, wantErr: errHelp},
		{name: "dni but no nombre", args: []string{"addprofesor", "-dni", "12345678"}, wantErr: errHelp},
		{name: "no password", args: []string{"addprofesor", "-nombre", "Rosa Díaz", "-dni", "12345678"}, wantErr: errHelp},
		{
			name:       "invalid dni",
			args:       []string{"addprofesor", "-nombre", "Rosa Díaz", "-dni", "123"},
			pwd:        "Secreta.123",
			wantErrStr: "must be 8 to 12 letters or digits",
		},
		{
			name:       "weak password",
			args:       []string{"addprofesor", "-nombre", "Rosa Díaz", "-dni", "12345678"},
			pwd:        "12345678",
			wantErrStr: "password cannot be entirely numeric",
		},
		{
			name: "register",
			args: []string{"addprofesor", "-nombre", "Rosa Díaz", "-dni", "12345678", "-email", "rosa@test.pe"},
			pwd:  "Secreta.123",
		},
		{
			name:    "duplicate dni",
			args:    []string{"addprofesor", "-nombre", "Otra Persona", "-dni", "12345678"},
			pwd:     "Secreta.123",
			wantErr: profesor.ErrDNITaken,
		},
	})
	assert.Contains(t, out.String(), `Profesor "Rosa Díaz" registered with ID 1`)

	p, err := repos.Profesor.GetProfesorByDNI(context.Background(), "12345678")
	require.NoError(t, err)
	assert.Equal(t, "rosa@test.pe", p.Email)
	assert.NoError(t, p.CheckPassword("Secreta.123"))
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, repos, _ := setup(t)
	testutil.CreateProfesor(t, repos.Profesor, "Rosa Díaz", "12345678", "", "Secreta.123")

	runCLITests(t, cli, []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "dni but no password", args: []string{"resetpassword", "-dni", "12345678"}, wantErr: errHelp},
		{name: "profesor not found", args: []string{"resetpassword", "-dni", "87654321"}, pwd: "Nueva.456", wantErr: profesor.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-dni", "12345678"}, pwd: "Nueva.456"},
	})

	p, err := repos.Profesor.GetProfesorByDNI(context.Background(), "12345678")
	require.NoError(t, err)
	assert.NoError(t, p.CheckPassword("Nueva.456"))
	assert.Error(t, p.CheckPassword("Secreta.123"))
}

func writeWorkbook(t *testing.T, name string) string {
	t.Helper()
	f := excelize.NewFile()
	sheets := map[string][][]interface{}{
		"notas": {
			{"grado_seccion", "nom", "1_matematicas_c1", "1_comunicacion_c1"},
			{"1A", "Ana Torres", "A", "B"},
			{"1A", "Luis Quispe", "C", "AD"},
		},
		"inteligencias": {
			{"grado_seccion", "nom", "Musical"},
			{"1A", "Ana Torres", 60},
		},
		"ci": {
			{"nom", "ci"},
			{"Luis Quispe", 101},
		},
	}
	for sheet, rows := range sheets {
		f.NewSheet(sheet)
		for i, row := range rows {
			row := row
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheet, cell, &row))
		}
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func Test_commandLine_import(t *testing.T) {
	cli, repos, out := setup(t)
	wb := writeWorkbook(t, "notas.xlsx")
	csv := filepath.Join(t.TempDir(), "notas.csv")
	require.NoError(t, os.WriteFile(csv, []byte("nom,ci\n"), 0o600))

	runCLITests(t, cli, []cliTest{
		{name: "no file", args: []string{"import"}, wantErr: errHelp},
		{name: "wrong extension", args: []string{"import", "-file", csv}, wantErr: importer.ErrInvalidFormat},
		{name: "missing file", args: []string{"import", "-file", filepath.Join(t.TempDir(), "nope.xlsx")}, wantErrStr: "no such file"},
		{name: "import", args: []string{"import", "-file", wb}},
		{name: "skip existing", args: []string{"import", "-file", wb, "-solo-nuevos"}},
	})
	assert.Contains(t, out.String(), "alumnos: 2 processed, 2 created, 0 updated")
	assert.Contains(t, out.String(), "alumnos: 0 processed, 0 created, 0 updated")

	alumnos, err := repos.Alumno.QueryAllAlumnos(context.Background())
	require.NoError(t, err)
	require.Len(t, alumnos, 2)
	require.NotNil(t, alumnos[1].CI)
	assert.Equal(t, 101, *alumnos[1].CI)
}

func Test_commandLine_cluster(t *testing.T) {
	cli, repos, out := setup(t)

	runCLITests(t, cli, []cliTest{
		{name: "no alumnos", args: []string{"cluster"}, wantErr: clustering.ErrNoAlumnos},
	})

	for i, ci := range []int{85, 90, 120, 125, 100} {
		testutil.CreateAlumno(t, repos.Alumno, fmt.Sprintf("Alumno %d", i+1), testutil.IntPtr(ci))
	}
	runCLITests(t, cli, []cliTest{
		{name: "cluster", args: []string{"cluster"}},
	})
	assert.Contains(t, out.String(), clustering.TypeKMeans)
	assert.Contains(t, out.String(), clustering.TypeDBSCAN)

	alumnos, err := repos.Alumno.QueryAllAlumnos(context.Background())
	require.NoError(t, err)
	for _, a := range alumnos {
		assert.NotNil(t, a.ClusterKMeans)
	}
}
