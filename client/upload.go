package client

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/trezcool/tutoria/core/importer"
)

// Upload streams an Excel workbook to the importer. Existing alumnos are only updated when update is set.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader, update bool) (importer.Result, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(filename))
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		_ = pw.CloseWithError(err)
	}()

	path := "/upload"
	if !update {
		path += "?actualizar_existentes=false"
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, pr)
	if err != nil {
		_ = pr.Close()
		return importer.Result{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var res importer.Result
	err = c.do(req, &res)
	return res, err
}
