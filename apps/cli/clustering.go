package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/tutoria/core/importer"
	"github.com/trezcool/tutoria/ui/tui"
	"github.com/trezcool/tutoria/ui/views"
)

func (c *cli) clusteringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clustering",
		Short: "Group alumnos with K-Means and DBSCAN",
	}

	process := &cobra.Command{
		Use:   "process",
		Short: "Run both algorithms over every alumno and store the clusters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.client.ProcessClustering(cmd.Context())
			if err != nil {
				return err
			}
			return c.render(res, func() string { return views.ClusteringResult(res) })
		},
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Size, IQ and grade average of each cluster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := c.client.ClusteringStatistics(cmd.Context())
			if err != nil {
				return err
			}
			return c.render(st, func() string { return views.ClusteringStatistics(st) })
		},
	}

	alumnos := &cobra.Command{
		Use:   "alumnos",
		Short: "List alumnos with their clusters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.client.ClusteredAlumnos(cmd.Context())
			if err != nil {
				return err
			}
			return c.render(res, func() string { return views.ClusteredAlumnosTable(res) })
		},
	}

	alumno := alumnoCmd("alumno", "Show the clusters and data of an alumno", func(cmd *cobra.Command, id int) error {
		d, err := c.client.ClusteredAlumno(cmd.Context(), id)
		if err != nil {
			return err
		}
		return c.render(d, func() string { return views.ClusteredAlumno(d) })
	})

	analysis := &cobra.Command{
		Use:   "analysis",
		Short: "Dashboard of the current cluster distribution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ov, err := c.client.ClusteringAnalysis(cmd.Context())
			if err != nil {
				return err
			}
			res, err := c.client.ClusteredAlumnos(cmd.Context())
			if err != nil {
				return err
			}
			return c.render(ov, func() string { return views.ClusteringDashboard(ov, res) })
		},
	}

	cmd.AddCommand(process, stats, alumnos, alumno, analysis)
	return cmd
}

func (c *cli) uploadCmd() *cobra.Command {
	var onlyNew bool
	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Import alumnos, grades, inteligencias and IQ from an Excel workbook (.xlsx)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := importer.CheckUpload(filepath.Base(path), 0, 0); err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return errors.Wrap(err, "opening workbook")
			}
			defer func() { _ = f.Close() }()

			res, err := c.client.Upload(cmd.Context(), path, f, !onlyNew)
			if err != nil {
				return errors.Wrap(err, path)
			}
			return c.render(res, func() string { return views.ImportResult(res) })
		},
	}
	cmd.Flags().BoolVar(&onlyNew, "solo-nuevos", false, "only create new alumnos; leave existing ones untouched")
	return cmd
}

func (c *cli) uiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return tui.Run(cmd.Context(), c.client)
		},
	}
}
