package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/alumno"
	"github.com/trezcool/tutoria/ui/views"
)

func pageFlags(cmd *cobra.Command, page *core.Page) {
	cmd.Flags().IntVar(&page.Skip, "skip", 0, "number of records to skip")
	cmd.Flags().IntVar(&page.Limit, "limit", 0, "maximum number of records (server default: 100)")
}

func (c *cli) alumnosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "alumnos",
		Aliases: []string{"alumno"},
		Short:   "Manage alumnos and their calificaciones",
	}

	var page core.Page
	list := &cobra.Command{
		Use:   "list",
		Short: "List alumnos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.client.ListAlumnos(cmd.Context(), page)
			if err != nil {
				return err
			}
			return c.render(res, func() string { return views.AlumnosTable(res) })
		},
	}
	pageFlags(list, &page)

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show an alumno",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			a, err := c.client.GetAlumno(cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.render(a, func() string { return views.AlumnosTable([]alumno.View{a}) })
		},
	}

	var na alumno.NewAlumno
	create := &cobra.Command{
		Use:   "create",
		Short: "Register an alumno",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.client.CreateAlumno(cmd.Context(), na)
			if err != nil {
				return err
			}
			return c.render(a, func() string { return views.AlumnosTable([]alumno.View{a}) })
		},
	}
	create.Flags().StringVar(&na.Nombre, "nombre", "", "first name(s)")
	create.Flags().StringVar(&na.Apellido, "apellido", "", "last name(s)")
	create.Flags().StringVar(&na.Email, "email", "", "email (not stored)")
	_ = create.MarkFlagRequired("nombre")
	_ = create.MarkFlagRequired("apellido")

	var ua alumno.UpdateAlumno
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Rename an alumno",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			a, err := c.client.UpdateAlumno(cmd.Context(), id, ua)
			if err != nil {
				return err
			}
			return c.render(a, func() string { return views.AlumnosTable([]alumno.View{a}) })
		},
	}
	update.Flags().StringVar(&ua.Nombre, "nombre", "", "first name(s)")
	update.Flags().StringVar(&ua.Apellido, "apellido", "", "last name(s)")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an alumno with all its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			msg, err := c.client.DeleteAlumno(cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.message(msg)
		},
	}

	nombres := &cobra.Command{
		Use:   "nombres",
		Short: "List the ID and name of every alumno",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.client.AlumnoNombres(cmd.Context())
			if err != nil {
				return err
			}
			return c.render(res, func() string {
				rows := make([][]string, 0, len(res))
				for _, n := range res {
					rows = append(rows, []string{strconv.Itoa(n.ID), n.Nombre})
				}
				return views.Table("Alumnos", []string{"ID", "Nombre"}, rows)
			})
		},
	}

	califs := &cobra.Command{
		Use:   "calificaciones ID",
		Short: "List the calificaciones of an alumno",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			res, err := c.client.Calificaciones(cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.render(res, func() string { return views.CalificacionesTable(res) })
		},
	}

	var sc alumno.SetCalificacion
	calificar := &cobra.Command{
		Use:   "calificar ID",
		Short: "Grade an alumno on a competencia (A, B, C or D)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			res, err := c.client.Calificar(cmd.Context(), id, sc)
			if err != nil {
				return err
			}
			return c.render(res, func() string { return views.CalificacionesTable([]alumno.Calificacion{res}) })
		},
	}
	calificar.Flags().IntVar(&sc.CompetenciaID, "competencia", 0, "competencia ID")
	calificar.Flags().StringVar(&sc.Calificacion, "nota", "", "grade: A, B, C or D")
	calificar.Flags().StringVar(&sc.Conclusion, "conclusion", "", "descriptive conclusion")
	_ = calificar.MarkFlagRequired("competencia")
	_ = calificar.MarkFlagRequired("nota")

	cmd.AddCommand(list, get, create, update, del, nombres, califs, calificar)
	return cmd
}
