package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core/clustering"
)

type clusteringApi struct {
	svc *clustering.Service
}

func registerClusteringAPI(g *echo.Group, svc *clustering.Service) {
	api := clusteringApi{svc: svc}

	cg := g.Group("/clustering")
	cg.POST("/process", api.process)
	cg.GET("/statistics", api.statistics)
	cg.GET("/alumnos", api.alumnos)
	cg.GET("/alumnos/:id", api.alumno)
	cg.GET("/analysis", api.analysis)
}

type (
	StatisticsResponse struct {
		Success    bool                  `json:"success"`
		Statistics clustering.Statistics `json:"statistics"`
	}

	ClusteredAlumnosResponse struct {
		Success bool                        `json:"success"`
		Alumnos []clustering.AlumnoClusters `json:"alumnos"`
		Total   int                         `json:"total"`
	}

	ClusteredAlumnoResponse struct {
		Success bool                    `json:"success"`
		Alumno  clustering.AlumnoDetail `json:"alumno"`
	}

	AnalysisResponse struct {
		Success  bool                `json:"success"`
		Analysis clustering.Overview `json:"analysis"`
	}
)

func (api *clusteringApi) process(ctx echo.Context) error {
	res, err := api.svc.Process(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "processing clusters")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *clusteringApi) statistics(ctx echo.Context) error {
	stats, err := api.svc.Statistics(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing cluster statistics")
	}
	return ctx.JSON(http.StatusOK, StatisticsResponse{Success: true, Statistics: stats})
}

func (api *clusteringApi) alumnos(ctx echo.Context) error {
	alumnos, err := api.svc.Alumnos(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying clustered alumnos")
	}
	return ctx.JSON(http.StatusOK, ClusteredAlumnosResponse{Success: true, Alumnos: alumnos, Total: len(alumnos)})
}

func (api *clusteringApi) alumno(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	a, err := api.svc.Alumno(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "retrieving clustered alumno")
	}
	return ctx.JSON(http.StatusOK, ClusteredAlumnoResponse{Success: true, Alumno: a})
}

func (api *clusteringApi) analysis(ctx echo.Context) error {
	ov, err := api.svc.Analysis(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "analysing clusters")
	}
	return ctx.JSON(http.StatusOK, AnalysisResponse{Success: true, Analysis: ov})
}
