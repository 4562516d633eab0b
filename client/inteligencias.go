package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/trezcool/tutoria/core"
	"github.com/trezcool/tutoria/core/ci"
	"github.com/trezcool/tutoria/core/inteligencia"
)

// ErrNoData is returned by the statistics endpoints when there is nothing to summarize.
var ErrNoData = errors.New("no data")

func (c *Client) ListInteligencias(ctx context.Context, page core.Page) ([]inteligencia.Inteligencia, error) {
	var intels []inteligencia.Inteligencia
	err := c.get(ctx, "/inteligencias"+pageQuery(page), &intels)
	return intels, err
}

func (c *Client) AlumnoInteligencias(ctx context.Context, alumnoID int) ([]inteligencia.Inteligencia, error) {
	var intels []inteligencia.Inteligencia
	err := c.get(ctx, fmt.Sprintf("/inteligencias/alumno/%d", alumnoID), &intels)
	return intels, err
}

func (c *Client) GetInteligencia(ctx context.Context, id int) (inteligencia.Inteligencia, error) {
	var i inteligencia.Inteligencia
	err := c.get(ctx, fmt.Sprintf("/inteligencias/%d", id), &i)
	return i, err
}

func (c *Client) CreateInteligencia(ctx context.Context, ni inteligencia.NewInteligencia) (inteligencia.Inteligencia, error) {
	var i inteligencia.Inteligencia
	err := c.send(ctx, http.MethodPost, "/inteligencias", ni, &i)
	return i, err
}

func (c *Client) UpdateInteligencia(ctx context.Context, id int, ui inteligencia.UpdateInteligencia) (inteligencia.Inteligencia, error) {
	var i inteligencia.Inteligencia
	err := c.send(ctx, http.MethodPut, fmt.Sprintf("/inteligencias/%d", id), ui, &i)
	return i, err
}

func (c *Client) DeleteInteligencia(ctx context.Context, id int) (string, error) {
	return c.deleteMessage(ctx, fmt.Sprintf("/inteligencias/%d", id))
}

func (c *Client) DeleteAlumnoInteligencias(ctx context.Context, alumnoID int) (string, error) {
	return c.deleteMessage(ctx, fmt.Sprintf("/inteligencias/alumno/%d", alumnoID))
}

func (c *Client) TiposInteligencia(ctx context.Context) ([]string, error) {
	var res struct {
		Tipos []string `json:"tipos_inteligencia"`
	}
	err := c.get(ctx, "/inteligencias/tipos/lista", &res)
	return res.Tipos, err
}

// getStats decodes a statistics body, which is a bare {"message"} when there is no data.
func (c *Client) getStats(ctx context.Context, path string, out interface{}) error {
	var raw json.RawMessage
	if err := c.get(ctx, path, &raw); err != nil {
		return err
	}
	if msg := gjson.GetBytes(raw, "message"); msg.Exists() && len(gjson.ParseBytes(raw).Map()) == 1 {
		return errors.Wrap(ErrNoData, msg.String())
	}
	return errors.Wrap(json.Unmarshal(raw, out), "decoding stats")
}

// InteligenciaStats returns ErrNoData when the alumno has no inteligencias.
func (c *Client) InteligenciaStats(ctx context.Context, alumnoID int) (inteligencia.Stats, error) {
	var st inteligencia.Stats
	err := c.getStats(ctx, fmt.Sprintf("/inteligencias/estadisticas/alumno/%d", alumnoID), &st)
	return st, err
}

func (c *Client) ListCI(ctx context.Context, page core.Page) ([]ci.Record, error) {
	var records []ci.Record
	err := c.get(ctx, "/ci"+pageQuery(page), &records)
	return records, err
}

func (c *Client) GetCI(ctx context.Context, alumnoID int) (ci.Record, error) {
	var r ci.Record
	err := c.get(ctx, fmt.Sprintf("/ci/alumno/%d", alumnoID), &r)
	return r, err
}

func (c *Client) SetCI(ctx context.Context, nr ci.NewRecord) (ci.Record, error) {
	var r ci.Record
	err := c.send(ctx, http.MethodPost, "/ci", nr, &r)
	return r, err
}

func (c *Client) UpdateCI(ctx context.Context, alumnoID int, ur ci.UpdateRecord) (ci.Record, error) {
	var r ci.Record
	err := c.send(ctx, http.MethodPut, fmt.Sprintf("/ci/%d", alumnoID), ur, &r)
	return r, err
}

func (c *Client) DeleteCI(ctx context.Context, alumnoID int) (string, error) {
	return c.deleteMessage(ctx, fmt.Sprintf("/ci/%d", alumnoID))
}

// CIStats returns ErrNoData when no alumno has an IQ record.
func (c *Client) CIStats(ctx context.Context) (ci.Stats, error) {
	var st ci.Stats
	err := c.getStats(ctx, "/ci/estadisticas/general", &st)
	return st, err
}

// CIResumen returns ErrNoData when the alumno has no IQ record.
func (c *Client) CIResumen(ctx context.Context, alumnoID int) (ci.Summary, error) {
	var sum ci.Summary
	err := c.getStats(ctx, fmt.Sprintf("/ci/resumen/alumno/%d", alumnoID), &sum)
	return sum, err
}

func (c *Client) CIRango(ctx context.Context, min, max int) ([]ci.InRange, error) {
	var res []ci.InRange
	err := c.get(ctx, fmt.Sprintf("/ci/rango/%d/%d", min, max), &res)
	return res, err
}
