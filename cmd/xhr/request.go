package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/xhr/internal/fixture"
	"github.com/GriffinCanCode/xhr/internal/xhr"
)

type requestFlags struct {
	data     string
	dataFile string
	json     bool
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.data, "data", "d", "", "request data as a JSON object")
	cmd.Flags().StringVarP(&f.dataFile, "data-file", "f", "", "read request data from a .json, .yaml or .toml file")
	cmd.Flags().BoolVar(&f.json, "json", false, "send POST data as application/json instead of a form")
	cmd.MarkFlagsMutuallyExclusive("data", "data-file")
}

// options resolves the flags into request options
func (f *requestFlags) options() (*xhr.Options, error) {
	opts := &xhr.Options{JSON: f.json}
	switch {
	case f.dataFile != "":
		data, err := fixture.Load(f.dataFile)
		if err != nil {
			return nil, err
		}
		opts.Data = data
	case f.data != "":
		data, err := fixture.Parse([]byte(f.data), fixture.JSON)
		if err != nil {
			return nil, fmt.Errorf("invalid --data: %w", err)
		}
		opts.Data = data
	}
	return opts, nil
}

func newRequestCmd(a *app) *cobra.Command {
	var f requestFlags
	cmd := &cobra.Command{
		Use:   "request METHOD URL",
		Short: "Send a request with any supported method",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.send(cmd, strings.ToUpper(args[0]), args[1], &f)
		},
	}
	f.register(cmd)
	return cmd
}

func newMethodCmd(a *app, method string) *cobra.Command {
	var f requestFlags
	cmd := &cobra.Command{
		Use:   strings.ToLower(method) + " URL",
		Short: "Send a " + method + " request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.send(cmd, method, args[0], &f)
		},
	}
	f.register(cmd)
	return cmd
}

// send dispatches one request, waits for it and prints the outcome.
// Only an unreachable server fails the command; HTTP error statuses are printed.
func (a *app) send(cmd *cobra.Command, method, url string, f *requestFlags) error {
	opts, err := f.options()
	if err != nil {
		return err
	}

	a.logger.Info("Sending request",
		zap.String("method", method),
		zap.String("url", url),
		zap.Any("data", opts.Data),
		zap.Bool("json", opts.JSON),
	)

	call, err := a.client().Go(cmd.Context(), method, url, opts)
	if err != nil {
		return err
	}
	resp, err := call.Wait(cmd.Context())
	if resp == nil {
		// interrupted before the request resolved
		return err
	}

	if err := printResponse(cmd.OutOrStdout(), resp, err); err != nil {
		return err
	}
	return err
}
