package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/trezcool/tutoria/core/clustering"
)

func (cli *commandLine) clusterCommand() *ffcli.Command {
	return &ffcli.Command{
		Name:       "cluster",
		ShortUsage: "admin cluster",
		ShortHelp:  "Run K-Means and DBSCAN over every alumno and store the clusters",
		FlagSet:    cli.newFlagSet("cluster"),
		Exec: func(ctx context.Context, _ []string) error {
			res, err := cli.clusterSvc.Process(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "%s (run %s)\n", res.Message, res.RunID)

			stats, err := cli.clusterSvc.Statistics(ctx)
			if err != nil {
				return err
			}
			cli.printClusters(clustering.TypeKMeans, stats.KMeans)
			cli.printClusters(clustering.TypeDBSCAN, stats.DBSCAN)
			return nil
		},
	}
}

func (cli *commandLine) printClusters(algo string, clusters map[string]clustering.ClusterStats) {
	keys := make([]string, 0, len(clusters))
	for k := range clusters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(cli.out, "  %s %s: %d alumnos\n", algo, k, clusters[k].Total)
	}
}
