package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core/profesor"
)

func (cli *commandLine) addProfesorCommand() *ffcli.Command {
	fs := cli.newFlagSet("addprofesor")
	nombre := fs.String("nombre", "", "The profesor's full name")
	dni := fs.String("dni", "", "The profesor's DNI, used to log in. The password will be prompted next.")
	email := fs.String("email", "", "The profesor's email (optional)")

	cmd := &ffcli.Command{
		Name:       "addprofesor",
		ShortUsage: "admin addprofesor -nombre NOMBRE -dni DNI [-email EMAIL]",
		ShortHelp:  "Register a profesor",
		FlagSet:    fs,
		Options:    envOptions(),
	}
	cmd.Exec = func(ctx context.Context, _ []string) error {
		if *nombre == "" || *dni == "" {
			return cli.usage(cmd)
		}
		pwd, err := cli.promptPassword("Enter password:")
		if err != nil {
			return err
		}
		if pwd == "" {
			return cli.usage(cmd)
		}
		p, err := cli.addProfesor(ctx, profesor.NewProfesor{
			Nombre:     *nombre,
			DNI:        *dni,
			Email:      *email,
			Contrasena: pwd,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Profesor %q registered with ID %d\n", p.Nombre, p.ID)
		return nil
	}
	return cmd
}

func (cli *commandLine) addProfesor(ctx context.Context, np profesor.NewProfesor) (profesor.Profesor, error) {
	if err := np.Validate(cli.validate); err != nil {
		var vErrs validator.ValidationErrors
		if !errors.As(err, &vErrs) {
			return profesor.Profesor{}, err
		}
		msgs := make([]string, 0, len(vErrs))
		for _, vErr := range vErrs {
			msgs = append(msgs, vErr.Translate(cli.translator))
		}
		sort.Strings(msgs)
		return profesor.Profesor{}, errors.Errorf("invalid profesor: %s", strings.Join(msgs, "; "))
	}
	return cli.profesorSvc.Register(ctx, np)
}
