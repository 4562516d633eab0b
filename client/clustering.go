package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/trezcool/tutoria/core/clustering"
)

func (c *Client) ProcessClustering(ctx context.Context) (clustering.Result, error) {
	var res clustering.Result
	err := c.send(ctx, http.MethodPost, "/clustering/process", nil, &res)
	return res, err
}

func (c *Client) ClusteringStatistics(ctx context.Context) (clustering.Statistics, error) {
	var res struct {
		Statistics clustering.Statistics `json:"statistics"`
	}
	err := c.get(ctx, "/clustering/statistics", &res)
	return res.Statistics, err
}

func (c *Client) ClusteredAlumnos(ctx context.Context) ([]clustering.AlumnoClusters, error) {
	var res struct {
		Alumnos []clustering.AlumnoClusters `json:"alumnos"`
	}
	err := c.get(ctx, "/clustering/alumnos", &res)
	return res.Alumnos, err
}

func (c *Client) ClusteredAlumno(ctx context.Context, id int) (clustering.AlumnoDetail, error) {
	var res struct {
		Alumno clustering.AlumnoDetail `json:"alumno"`
	}
	err := c.get(ctx, fmt.Sprintf("/clustering/alumnos/%d", id), &res)
	return res.Alumno, err
}

func (c *Client) ClusteringAnalysis(ctx context.Context) (clustering.Overview, error) {
	var res struct {
		Analysis clustering.Overview `json:"analysis"`
	}
	err := c.get(ctx, "/clustering/analysis", &res)
	return res.Analysis, err
}
