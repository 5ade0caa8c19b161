package cli

import (
	"github.com/dmitrijs2005/vaultkeeper/internal/client/client"
	"github.com/dmitrijs2005/vaultkeeper/internal/rpc"
	"github.com/spf13/cobra"
)

// NewAccountCommand groups token account commands.
func NewAccountCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Create and inspect token accounts",
	}
	cmd.AddCommand(newAccountCreateCommand(opts))
	cmd.AddCommand(newAccountShowCommand(opts))
	return cmd
}

func newAccountCreateCommand(opts *RootOptions) *cobra.Command {
	var mintRef, ownerRef string

	cmd := &cobra.Command{
		Use:   "create <key>",
		Short: "Open a token account at the address of keystore key <key>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := opts.env.signer(args[0])
			if err != nil {
				return err
			}
			ids, err := resolveAll(opts.env, mintRef, ownerRef)
			if err != nil {
				return err
			}
			api, err := opts.env.client()
			if err != nil {
				return err
			}

			req := &rpc.CreateAccountRequest{Address: acct.Public, Mint: ids[0], Owner: ids[1]}
			acc, err := api.CreateAccount(client.WithSigners(cmd.Context(), acct), req)
			if err != nil {
				return WrapExitError(ExitFailure, "create account", err)
			}
			return opts.output(cmd).Success(acc)
		},
	}
	cmd.Flags().StringVar(&mintRef, "mint", "", "mint (key name or address)")
	cmd.Flags().StringVar(&ownerRef, "owner", "", "owner who authorizes transfers out")
	_ = cmd.MarkFlagRequired("mint")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func newAccountShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <account>",
		Short: "Show a token account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := opts.env.resolve(args[0])
			if err != nil {
				return err
			}
			api, err := opts.env.client()
			if err != nil {
				return err
			}
			acc, err := api.GetAccount(cmd.Context(), addr)
			if err != nil {
				return WrapExitError(ExitFailure, "account", err)
			}
			return opts.output(cmd).Success(acc)
		},
	}
}
