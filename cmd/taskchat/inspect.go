package main

import (
	"fmt"

	"taskchat/pkg/backend"

	"github.com/spf13/cobra"
)

func newHealthCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check whether the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			client := backend.NewFromConfig(a.cfg)
			if err := client.Health(cmd.Context()); err != nil {
				fmt.Fprintf(a.stdout, "Disconnected: %s (%v)\n", client.BaseURL(), err)
				return errExitFailure
			}
			fmt.Fprintf(a.stdout, "Connected: %s\n", client.BaseURL())
			return nil
		},
	}
}

func newProbeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "probe [path]",
		Short: "GET a backend endpoint and print its status and body",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			path := "/health"
			if len(args) == 1 {
				path = args[0]
			}
			res, err := backend.NewFromConfig(a.cfg).Probe(cmd.Context(), path)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, res.Pretty())
			return nil
		},
	}
}
