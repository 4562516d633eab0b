package main

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// render prints data in the configured format; table renders it for humans.
func (c *cli) render(data interface{}, table func() string) error {
	switch c.v.GetString(cfgKeyOutput) {
	case outputJSON:
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case outputYAML:
		// through JSON so that keys match the API
		raw, err := json.Marshal(data)
		if err != nil {
			return errors.Wrap(err, "encoding output")
		}
		var generic interface{}
		if err = json.Unmarshal(raw, &generic); err != nil {
			return errors.Wrap(err, "encoding output")
		}
		enc := yaml.NewEncoder(c.out)
		enc.SetIndent(2)
		if err = enc.Encode(generic); err != nil {
			return errors.Wrap(err, "encoding output")
		}
		return enc.Close()
	default:
		_, err := fmt.Fprint(c.out, table())
		return err
	}
}

func (c *cli) message(msg string) error {
	return c.render(map[string]string{"message": msg}, func() string { return msg + "\n" })
}
