package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/curso"
	"github.com/trezcool/tutoria/core/profesor"
	"github.com/trezcool/tutoria/ui/views"
)

func (c *cli) profesoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profesores",
		Aliases: []string{"profesor"},
		Short:   "Register, authenticate and manage profesores",
	}
	renderOne := func(p profesor.Profesor) error {
		return c.render(p, func() string { return views.ProfesoresTable([]profesor.Profesor{p}) })
	}
	renderCursos := func(res []curso.Curso, err error) error {
		if err != nil {
			return err
		}
		return c.render(res, func() string { return views.CursosTable(res) })
	}

	var (
		np     profesor.NewProfesor
		regPwd string
	)
	register := &cobra.Command{
		Use:   "register",
		Short: "Register a profesor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pwd, err := c.password(regPwd, "Contraseña: ")
			if err != nil {
				return err
			}
			np.Contrasena = pwd
			p, err := c.client.Register(cmd.Context(), np)
			if err != nil {
				return err
			}
			return renderOne(p)
		},
	}
	register.Flags().StringVar(&np.Nombre, "nombre", "", "full name")
	register.Flags().StringVar(&np.DNI, "dni", "", "DNI (8 to 12 letters or digits)")
	register.Flags().StringVar(&np.Email, "email", "", "email")
	register.Flags().StringVar(&regPwd, "password", "", "password (prompted when empty)")
	_ = register.MarkFlagRequired("nombre")
	_ = register.MarkFlagRequired("dni")

	var username, loginPwd string
	login := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the token in the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pwd, err := c.password(loginPwd, "Contraseña: ")
			if err != nil {
				return err
			}
			token, err := c.client.Login(cmd.Context(), username, pwd)
			if err != nil {
				return err
			}
			if err = c.saveToken(token); err != nil {
				return err
			}
			return c.message(fmt.Sprintf("Sesión iniciada; token guardado en %s", c.configFile))
		},
	}
	login.Flags().StringVar(&username, "dni", "", "DNI (or full name)")
	login.Flags().StringVar(&loginPwd, "password", "", "password (prompted when empty)")
	_ = login.MarkFlagRequired("dni")

	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := c.client.RefreshToken(cmd.Context())
			if err != nil {
				return err
			}
			if err = c.saveToken(token); err != nil {
				return err
			}
			return c.message("Token renovado")
		},
	}

	me := &cobra.Command{
		Use:   "me",
		Short: "Show the authenticated profesor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := c.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			return renderOne(p)
		},
	}

	var page core.Page
	list := &cobra.Command{
		Use:   "list",
		Short: "List profesores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.client.ListProfesores(cmd.Context(), page)
			if err != nil {
				return err
			}
			return c.render(res, func() string { return views.ProfesoresTable(res) })
		},
	}
	pageFlags(list, &page)

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show a profesor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			p, err := c.client.GetProfesor(cmd.Context(), id)
			if err != nil {
				return err
			}
			return renderOne(p)
		},
	}

	var up profesor.UpdateProfesor
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Update a profesor; only the given flags are changed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			p, err := c.client.UpdateProfesor(cmd.Context(), id, up)
			if err != nil {
				return err
			}
			return renderOne(p)
		},
	}
	update.Flags().StringVar(&up.Nombre, "nombre", "", "full name")
	update.Flags().StringVar(&up.DNI, "dni", "", "DNI")
	update.Flags().StringVar(&up.Email, "email", "", "email")
	update.Flags().StringVar(&up.Contrasena, "password", "", "new password")

	del := c.deleteCmd("Delete a profesor", func(cmd *cobra.Command, id int) (string, error) {
		return c.client.DeleteProfesor(cmd.Context(), id)
	})

	cursos := &cobra.Command{
		Use:   "cursos ID",
		Short: "List the cursos assigned to a profesor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			return renderCursos(c.client.ProfesorCursos(cmd.Context(), id))
		},
	}

	assignment := func(use, short string, call func(cmd *cobra.Command, id, cursoID int) (string, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " ID CURSO_ID",
			Short: short,
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := idArg(args, 0)
				if err != nil {
					return err
				}
				cursoID, err := idArg(args, 1)
				if err != nil {
					return err
				}
				msg, err := call(cmd, id, cursoID)
				if err != nil {
					return err
				}
				return c.message(msg)
			},
		}
	}
	asignar := assignment("asignar", "Assign a curso to a profesor", func(cmd *cobra.Command, id, cursoID int) (string, error) {
		return c.client.AsignarCurso(cmd.Context(), id, cursoID)
	})
	desasignar := assignment("desasignar", "Unassign a curso from a profesor", func(cmd *cobra.Command, id, cursoID int) (string, error) {
		return c.client.DesasignarCurso(cmd.Context(), id, cursoID)
	})

	disponibles := &cobra.Command{
		Use:   "disponibles",
		Short: "List the cursos no profesor teaches yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return renderCursos(c.client.CursosDisponibles(cmd.Context()))
		},
	}

	stats := &cobra.Command{
		Use:   "stats ID",
		Short: "Cursos, alumnos and average grade of a profesor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			st, err := c.client.ProfesorStats(cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.render(st, func() string { return views.ProfesorStats(st) })
		},
	}

	resetPwd := &cobra.Command{
		Use:   "password-reset EMAIL",
		Short: "Email a password reset link to a profesor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := c.client.RequestPasswordReset(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.message(msg)
		},
	}

	var rp profesor.ResetPassword
	confirmPwd := &cobra.Command{
		Use:   "password-reset-confirm",
		Short: "Set a new password with the uid and token of a reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pwd, err := c.password(rp.Password, "Nueva contraseña: ")
			if err != nil {
				return err
			}
			rp.Password, rp.PasswordConfirm = pwd, pwd
			msg, err := c.client.ConfirmPasswordReset(cmd.Context(), rp)
			if err != nil {
				return err
			}
			return c.message(msg)
		},
	}
	confirmPwd.Flags().StringVar(&rp.UID, "uid", "", "uid from the reset link")
	confirmPwd.Flags().StringVar(&rp.Token, "reset-token", "", "token from the reset link")
	confirmPwd.Flags().StringVar(&rp.Password, "password", "", "new password (prompted when empty)")
	_ = confirmPwd.MarkFlagRequired("uid")
	_ = confirmPwd.MarkFlagRequired("reset-token")

	cmd.AddCommand(register, login, refresh, me, list, get, update, del, cursos, asignar, desasignar, disponibles, stats,
		resetPwd, confirmPwd)
	return cmd
}
