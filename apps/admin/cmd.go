package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/term"

	"github.com/trezcool/tutoria/core/clustering"
	"github.com/trezcool/tutoria/core/importer"
	"github.com/trezcool/tutoria/core/profesor"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db         *sqlx.DB
	engine     string
	out        io.Writer
	validate   *validator.Validate
	translator ut.Translator

	profesorSvc *profesor.Service
	importerSvc *importer.Service
	clusterSvc  *clustering.Service
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

// usage prints the help of cmd and returns errHelp.
func (cli *commandLine) usage(cmd *ffcli.Command) error {
	fmt.Fprintln(cli.out, ffcli.DefaultUsageFunc(cmd))
	return errHelp
}

// promptPassword reads a password without echoing it.
func (cli *commandLine) promptPassword(label string) (string, error) {
	fmt.Fprint(cli.out, label)
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(cli.out)
	return string(pwd), err
}

func (cli *commandLine) rootCommand() *ffcli.Command {
	root := &ffcli.Command{
		Name:       "admin",
		ShortUsage: "admin <subcommand> [flags] [args...]",
		FlagSet:    cli.newFlagSet("admin"),
		Subcommands: []*ffcli.Command{
			cli.migrateCommand(),
			cli.addProfesorCommand(),
			cli.resetPasswordCommand(),
			cli.importCommand(),
			cli.clusterCommand(),
		},
	}
	root.Exec = func(context.Context, []string) error { return cli.usage(root) }
	return root
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		return cli.usage(cli.rootCommand())
	}
	err := cli.rootCommand().ParseAndRun(context.Background(), args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return errHelp
	}
	return err
}

// envOptions lets every flag be set from TUTORIA_ADMIN_<FLAG> too.
func envOptions() []ff.Option {
	return []ff.Option{ff.WithEnvVarPrefix("TUTORIA_ADMIN")}
}
