package main

import (
	"github.com/spf13/cobra"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/competencia"
	"github.com/trezcool/tutoria/core/curso"
	"github.com/trezcool/tutoria/ui/views"
)

// deleteCmd builds a `delete ID` command around a client call returning a confirmation message.
func (c *cli) deleteCmd(short string, del func(cmd *cobra.Command, id int) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			msg, err := del(cmd, id)
			if err != nil {
				return err
			}
			return c.message(msg)
		},
	}
}

func (c *cli) cursosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cursos",
		Aliases: []string{"curso"},
		Short:   "Manage cursos",
	}
	renderOne := func(cur curso.Curso) error {
		return c.render(cur, func() string { return views.CursosTable([]curso.Curso{cur}) })
	}

	var page core.Page
	list := &cobra.Command{
		Use:   "list",
		Short: "List cursos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.client.ListCursos(cmd.Context(), page)
			if err != nil {
				return err
			}
			return c.render(res, func() string { return views.CursosTable(res) })
		},
	}
	pageFlags(list, &page)

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show a curso",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			cur, err := c.client.GetCurso(cmd.Context(), id)
			if err != nil {
				return err
			}
			return renderOne(cur)
		},
	}

	var nc curso.NewCurso
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a curso",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cur, err := c.client.CreateCurso(cmd.Context(), nc)
			if err != nil {
				return err
			}
			return renderOne(cur)
		},
	}
	create.Flags().StringVar(&nc.Nombre, "nombre", "", "name of the curso")
	_ = create.MarkFlagRequired("nombre")

	var uc curso.UpdateCurso
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Rename a curso",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			cur, err := c.client.UpdateCurso(cmd.Context(), id, uc)
			if err != nil {
				return err
			}
			return renderOne(cur)
		},
	}
	update.Flags().StringVar(&uc.Nombre, "nombre", "", "new name")

	del := c.deleteCmd("Delete a curso", func(cmd *cobra.Command, id int) (string, error) {
		return c.client.DeleteCurso(cmd.Context(), id)
	})

	cmd.AddCommand(list, get, create, update, del)
	return cmd
}

func (c *cli) competenciasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "competencias",
		Aliases: []string{"competencia"},
		Short:   "Manage competencias",
	}
	renderOne := func(comp competencia.View) error {
		return c.render(comp, func() string { return views.CompetenciasTable([]competencia.View{comp}) })
	}

	var page core.Page
	list := &cobra.Command{
		Use:   "list",
		Short: "List competencias",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.client.ListCompetencias(cmd.Context(), page)
			if err != nil {
				return err
			}
			return c.render(res, func() string { return views.CompetenciasTable(res) })
		},
	}
	pageFlags(list, &page)

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show a competencia",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			comp, err := c.client.GetCompetencia(cmd.Context(), id)
			if err != nil {
				return err
			}
			return renderOne(comp)
		},
	}

	var nc competencia.NewCompetencia
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a competencia",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			comp, err := c.client.CreateCompetencia(cmd.Context(), nc)
			if err != nil {
				return err
			}
			return renderOne(comp)
		},
	}
	create.Flags().StringVar(&nc.Nombre, "nombre", "", "code of the competencia (e.g. 1_matematicas_c1)")
	create.Flags().StringVar(&nc.Descripcion, "descripcion", "", "description")
	create.Flags().IntVar(&nc.CursoID, "curso", 0, "curso ID (default: 1)")
	_ = create.MarkFlagRequired("nombre")

	var uc competencia.UpdateCompetencia
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Update a competencia",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			comp, err := c.client.UpdateCompetencia(cmd.Context(), id, uc)
			if err != nil {
				return err
			}
			return renderOne(comp)
		},
	}
	update.Flags().StringVar(&uc.Nombre, "nombre", "", "new code")
	update.Flags().StringVar(&uc.Descripcion, "descripcion", "", "new description")

	del := c.deleteCmd("Delete a competencia", func(cmd *cobra.Command, id int) (string, error) {
		return c.client.DeleteCompetencia(cmd.Context(), id)
	})

	cmd.AddCommand(list, get, create, update, del)
	return cmd
}
