package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/bytedance/sonic"
	"github.com/gosuri/uitable"

	"github.com/GriffinCanCode/xhr/internal/geolocation"
	"github.com/GriffinCanCode/xhr/internal/xhr"
)

func newTable() *uitable.Table {
	table := uitable.New()
	table.RightAlign(0)
	table.MaxColWidth = 80
	table.Separator = " "
	return table
}

// printResponse writes a summary table followed by the decoded body
func printResponse(w io.Writer, resp *xhr.Response, reqErr error) error {
	table := newTable()
	table.AddRow("status:", strconv.Itoa(resp.Status()))
	table.AddRow("statusText:", resp.StatusText())
	table.AddRow("format:", string(resp.Format()))
	if h, ok := resp.Request().(interface{ ID() string }); ok {
		table.AddRow("id:", h.ID())
	}
	if reqErr != nil {
		table.AddRow("error:", reqErr.Error())
	}
	if _, err := fmt.Fprintln(w, table); err != nil {
		return err
	}

	body, err := renderData(resp)
	if err != nil {
		return err
	}
	if body == "" {
		return nil
	}
	_, err = fmt.Fprintln(w, body)
	return err
}

func renderData(resp *xhr.Response) (string, error) {
	switch resp.Format() {
	case xhr.FormatJSON:
		out, err := sonic.ConfigStd.MarshalIndent(resp.Data(), "", "  ")
		if err != nil {
			return "", fmt.Errorf("render response: %w", err)
		}
		return string(out), nil
	case xhr.FormatXML:
		if doc, ok := resp.Data().(*xmlquery.Node); ok {
			return doc.OutputXML(true), nil
		}
	}
	text, _ := resp.Data().(string)
	return text, nil
}

func printPosition(w io.Writer, c geolocation.Coordinates, ts time.Time) error {
	table := newTable()
	table.AddRow("latitude:", formatFloat(c.Latitude))
	table.AddRow("longitude:", formatFloat(c.Longitude))
	table.AddRow("accuracy:", formatFloat(c.Accuracy))
	if c.Altitude != nil {
		table.AddRow("altitude:", formatFloat(*c.Altitude))
	}
	if c.Heading != nil {
		table.AddRow("heading:", formatFloat(*c.Heading))
	}
	if c.Speed != nil {
		table.AddRow("speed:", formatFloat(*c.Speed))
	}
	table.AddRow("timestamp:", ts.UTC().Format(time.RFC3339Nano))
	_, err := fmt.Fprintln(w, table)
	return err
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
