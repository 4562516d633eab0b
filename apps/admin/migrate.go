package main

import (
	"context"

	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/pressly/goose/v3"

	"github.com/trezcool/tutoria/storage/database"
)

var gooseRunFunc = goose.RunContext // mockable

func (cli *commandLine) migrateCommand() *ffcli.Command {
	cmd := &ffcli.Command{
		Name:       "migrate",
		ShortUsage: "admin migrate <up|up-by-one|up-to|down|down-to|redo|reset|status|version|create|fix> [args...]",
		ShortHelp:  "Run the database migrations",
		FlagSet:    cli.newFlagSet("migrate"),
	}
	cmd.Exec = func(ctx context.Context, args []string) error {
		if len(args) == 0 {
			return cli.usage(cmd)
		}
		return cli.migrate(ctx, args[0], args[1:]...)
	}
	return cmd
}

func (cli *commandLine) migrate(ctx context.Context, command string, args ...string) error {
	if err := database.SetupGoose(cli.engine); err != nil {
		return err
	}
	return gooseRunFunc(ctx, command, cli.db.DB, database.MigrationsDir(cli.engine), args...)
}
