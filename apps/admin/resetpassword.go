package main

import (
	"context"
	"fmt"

	"github.com/peterbourgon/ff/v3/ffcli"
)

func (cli *commandLine) resetPasswordCommand() *ffcli.Command {
	fs := cli.newFlagSet("resetpassword")
	dni := fs.String("dni", "", "The profesor's DNI. The password will be prompted next.")

	cmd := &ffcli.Command{
		Name:       "resetpassword",
		ShortUsage: "admin resetpassword -dni DNI",
		ShortHelp:  "Reset a profesor's password",
		FlagSet:    fs,
		Options:    envOptions(),
	}
	cmd.Exec = func(ctx context.Context, _ []string) error {
		if *dni == "" {
			return cli.usage(cmd)
		}
		pwd, err := cli.promptPassword("Enter password:")
		if err != nil {
			return err
		}
		if pwd == "" {
			return cli.usage(cmd)
		}
		if err = cli.profesorSvc.SetPassword(ctx, *dni, pwd); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "Password updated")
		return nil
	}
	return cmd
}
