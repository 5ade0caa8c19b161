package cli

import (
	"github.com/spf13/cobra"
)

// NewPingCommand creates the ping command.
func NewPingCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.env.client()
			if err != nil {
				return err
			}
			if err := api.Ping(cmd.Context()); err != nil {
				return WrapExitError(ExitFailure, "ping", err)
			}
			return opts.output(cmd).Success("OK")
		},
	}
}

// NewDeriveCommand creates the derive command.
func NewDeriveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "derive <record>",
		Short: "Show the signer and vault addresses a record gets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := opts.env.resolve(args[0])
			if err != nil {
				return err
			}
			api, err := opts.env.client()
			if err != nil {
				return err
			}
			resp, err := api.Derive(cmd.Context(), record)
			if err != nil {
				return WrapExitError(ExitFailure, "derive", err)
			}
			return opts.output(cmd).Success(resp)
		},
	}
}
