package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/tutoria/client"
	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/ci"
	"github.com/trezcool/tutoria/core/inteligencia"
	"github.com/trezcool/tutoria/ui/views"
)

// renderStats prints the server's notice instead of failing when there is nothing to aggregate.
func (c *cli) renderStats(err error, data interface{}, table func() string) error {
	if errors.Is(err, client.ErrNoData) {
		msg := strings.TrimSuffix(err.Error(), ": "+client.ErrNoData.Error())
		return c.message(msg)
	}
	if err != nil {
		return err
	}
	return c.render(data, table)
}

func (c *cli) inteligenciasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inteligencias",
		Aliases: []string{"inteligencia"},
		Short:   "Manage the multiple-intelligence scores of alumnos",
	}
	renderOne := func(i inteligencia.Inteligencia) error {
		return c.render(i, func() string { return views.InteligenciasTable([]inteligencia.Inteligencia{i}) })
	}
	renderList := func(res []inteligencia.Inteligencia, err error) error {
		if err != nil {
			return err
		}
		return c.render(res, func() string { return views.InteligenciasTable(res) })
	}

	var page core.Page
	list := &cobra.Command{
		Use:   "list",
		Short: "List inteligencias",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return renderList(c.client.ListInteligencias(cmd.Context(), page))
		},
	}
	pageFlags(list, &page)

	ofAlumno := &cobra.Command{
		Use:   "alumno ALUMNO_ID",
		Short: "List the inteligencias of an alumno",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			return renderList(c.client.AlumnoInteligencias(cmd.Context(), id))
		},
	}

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show an inteligencia",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			i, err := c.client.GetInteligencia(cmd.Context(), id)
			if err != nil {
				return err
			}
			return renderOne(i)
		},
	}

	var (
		ni      inteligencia.NewInteligencia
		puntaje float64
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Record an inteligencia score (0-100)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ni.Puntaje = &puntaje
			i, err := c.client.CreateInteligencia(cmd.Context(), ni)
			if err != nil {
				return err
			}
			return renderOne(i)
		},
	}
	create.Flags().IntVar(&ni.AlumnoID, "alumno", 0, "alumno ID")
	create.Flags().StringVar(&ni.Tipo, "tipo", "", "type of inteligencia (e.g. Musical)")
	create.Flags().Float64Var(&puntaje, "puntaje", 0, "score from 0 to 100")
	_ = create.MarkFlagRequired("alumno")
	_ = create.MarkFlagRequired("tipo")
	_ = create.MarkFlagRequired("puntaje")

	var (
		updAlumno  int
		updTipo    string
		updPuntaje float64
	)
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Update an inteligencia; only the given flags are changed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			var ui inteligencia.UpdateInteligencia
			if cmd.Flags().Changed("alumno") {
				ui.AlumnoID = &updAlumno
			}
			if cmd.Flags().Changed("tipo") {
				ui.Tipo = &updTipo
			}
			if cmd.Flags().Changed("puntaje") {
				ui.Puntaje = &updPuntaje
			}
			i, err := c.client.UpdateInteligencia(cmd.Context(), id, ui)
			if err != nil {
				return err
			}
			return renderOne(i)
		},
	}
	update.Flags().IntVar(&updAlumno, "alumno", 0, "alumno ID")
	update.Flags().StringVar(&updTipo, "tipo", "", "type of inteligencia")
	update.Flags().Float64Var(&updPuntaje, "puntaje", 0, "score from 0 to 100")

	del := c.deleteCmd("Delete an inteligencia", func(cmd *cobra.Command, id int) (string, error) {
		return c.client.DeleteInteligencia(cmd.Context(), id)
	})

	delAlumno := &cobra.Command{
		Use:   "delete-alumno ALUMNO_ID",
		Short: "Delete every inteligencia of an alumno",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			msg, err := c.client.DeleteAlumnoInteligencias(cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.message(msg)
		},
	}

	tipos := &cobra.Command{
		Use:   "tipos",
		Short: "List the recorded types of inteligencia",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.client.TiposInteligencia(cmd.Context())
			if err != nil {
				return err
			}
			return c.render(res, func() string {
				rows := make([][]string, 0, len(res))
				for _, t := range res {
					rows = append(rows, []string{t})
				}
				return views.Table("Tipos de inteligencia", []string{"Tipo"}, rows)
			})
		},
	}

	stats := &cobra.Command{
		Use:   "stats ALUMNO_ID",
		Short: "Summarize the inteligencias of an alumno",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			st, err := c.client.InteligenciaStats(cmd.Context(), id)
			return c.renderStats(err, st, func() string { return views.InteligenciaStats(st) })
		},
	}

	cmd.AddCommand(list, ofAlumno, get, create, update, del, delAlumno, tipos, stats)
	return cmd
}

func (c *cli) ciCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ci",
		Short: "Manage the IQ (coeficiente intelectual) records of alumnos",
	}
	renderOne := func(r ci.Record) error {
		return c.render(r, func() string { return views.CITable([]ci.Record{r}) })
	}

	var page core.Page
	list := &cobra.Command{
		Use:   "list",
		Short: "List IQ records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.client.ListCI(cmd.Context(), page)
			if err != nil {
				return err
			}
			return c.render(res, func() string { return views.CITable(res) })
		},
	}
	pageFlags(list, &page)

	get := &cobra.Command{
		Use:   "get ALUMNO_ID",
		Short: "Show the IQ record of an alumno",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			r, err := c.client.GetCI(cmd.Context(), id)
			if err != nil {
				return err
			}
			return renderOne(r)
		},
	}

	var (
		valor                int
		fecha, tipo, observa string
	)
	optional := func(cmd *cobra.Command, name string, val *string) *string {
		if cmd.Flags().Changed(name) {
			return val
		}
		return nil
	}
	recordFlags := func(cmd *cobra.Command) {
		cmd.Flags().IntVar(&valor, "valor", 0, "IQ value (0-200)")
		cmd.Flags().StringVar(&fecha, "fecha", "", "date of the test")
		cmd.Flags().StringVar(&tipo, "tipo", "", "test used (e.g. WISC-V)")
		cmd.Flags().StringVar(&observa, "observaciones", "", "notes")
	}

	var alumnoID int
	set := &cobra.Command{
		Use:   "set",
		Short: "Set (or replace) the IQ record of an alumno",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := c.client.SetCI(cmd.Context(), ci.NewRecord{
				AlumnoID:      alumnoID,
				ValorCI:       &valor,
				FechaTest:     optional(cmd, "fecha", &fecha),
				TipoTest:      optional(cmd, "tipo", &tipo),
				Observaciones: optional(cmd, "observaciones", &observa),
			})
			if err != nil {
				return err
			}
			return renderOne(r)
		},
	}
	set.Flags().IntVar(&alumnoID, "alumno", 0, "alumno ID")
	recordFlags(set)
	_ = set.MarkFlagRequired("alumno")
	_ = set.MarkFlagRequired("valor")

	update := &cobra.Command{
		Use:   "update ALUMNO_ID",
		Short: "Update the IQ record of an alumno; only the given flags are changed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			ur := ci.UpdateRecord{
				FechaTest:     optional(cmd, "fecha", &fecha),
				TipoTest:      optional(cmd, "tipo", &tipo),
				Observaciones: optional(cmd, "observaciones", &observa),
			}
			if cmd.Flags().Changed("valor") {
				ur.ValorCI = &valor
			}
			r, err := c.client.UpdateCI(cmd.Context(), id, ur)
			if err != nil {
				return err
			}
			return renderOne(r)
		},
	}
	recordFlags(update)

	del := c.deleteCmd("Delete the IQ record of an alumno", func(cmd *cobra.Command, id int) (string, error) {
		return c.client.DeleteCI(cmd.Context(), id)
	})
	del.Use = "delete ALUMNO_ID"

	stats := &cobra.Command{
		Use:   "stats",
		Short: "IQ statistics over every alumno",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.client.CIStats(cmd.Context())
			return c.renderStats(err, st, func() string { return views.CIStats(st) })
		},
	}

	resumen := &cobra.Command{
		Use:   "resumen ALUMNO_ID",
		Short: "IQ category and percentile of an alumno",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args, 0)
			if err != nil {
				return err
			}
			sum, err := c.client.CIResumen(cmd.Context(), id)
			return c.renderStats(err, sum, func() string { return views.CIResumen(sum) })
		},
	}

	rango := &cobra.Command{
		Use:   "rango MIN MAX",
		Short: "List the alumnos whose IQ is within [MIN, MAX]",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lo, err := intArg(args[0])
			if err != nil {
				return err
			}
			hi, err := intArg(args[1])
			if err != nil {
				return err
			}
			res, err := c.client.CIRango(cmd.Context(), lo, hi)
			if err != nil {
				return err
			}
			return c.render(res, func() string { return views.CIRango(res) })
		},
	}

	cmd.AddCommand(list, get, set, update, del, stats, resumen, rango)
	return cmd
}
