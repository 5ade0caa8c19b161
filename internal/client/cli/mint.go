package cli

import (
	"github.com/dmitrijs2005/vaultkeeper/internal/client/client"
	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
	"github.com/dmitrijs2005/vaultkeeper/internal/rpc"
	"github.com/spf13/cobra"
)

// NewMintCommand groups mint administration.
func NewMintCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Create mints, issue tokens and freeze accounts",
	}
	cmd.AddCommand(newMintCreateCommand(opts))
	cmd.AddCommand(newMintToCommand(opts))
	cmd.AddCommand(newMintFreezeCommand(opts))
	return cmd
}

func newMintCreateCommand(opts *RootOptions) *cobra.Command {
	var authority string
	var decimals uint8

	cmd := &cobra.Command{
		Use:   "create <key>",
		Short: "Create a mint at the address of keystore key <key>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, err := opts.env.signer(args[0])
			if err != nil {
				return err
			}
			auth, err := opts.env.resolve(authority)
			if err != nil {
				return err
			}
			api, err := opts.env.client()
			if err != nil {
				return err
			}

			req := &rpc.CreateMintRequest{Address: mint.Public, Authority: auth, Decimals: decimals}
			m, err := api.CreateMint(client.WithSigners(cmd.Context(), mint), req)
			if err != nil {
				return WrapExitError(ExitFailure, "create mint", err)
			}
			return opts.output(cmd).Success(m)
		},
	}
	cmd.Flags().StringVar(&authority, "authority", "", "mint authority (key name or address)")
	cmd.Flags().Uint8Var(&decimals, "decimals", 0, "decimal places")
	_ = cmd.MarkFlagRequired("authority")
	return cmd
}

func newMintToCommand(opts *RootOptions) *cobra.Command {
	var mintRef, accountRef, signerName string
	var amount uint64

	cmd := &cobra.Command{
		Use:   "to",
		Short: "Issue new tokens into an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := opts.env.signer(signerName)
			if err != nil {
				return err
			}
			ids, err := resolveAll(opts.env, mintRef, accountRef)
			if err != nil {
				return err
			}
			api, err := opts.env.client()
			if err != nil {
				return err
			}

			req := &rpc.MintToRequest{Mint: ids[0], Account: ids[1], Amount: amount}
			acc, err := api.MintTo(client.WithSigners(cmd.Context(), signer), req)
			if err != nil {
				return WrapExitError(ExitFailure, "mint to", err)
			}
			return opts.output(cmd).Success(acc)
		},
	}
	cmd.Flags().StringVar(&mintRef, "mint", "", "mint (key name or address)")
	cmd.Flags().StringVar(&accountRef, "account", "", "destination token account")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "amount in base units")
	cmd.Flags().StringVar(&signerName, "signer", "", "keystore key of the mint authority")
	for _, f := range []string{"mint", "account", "amount", "signer"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newMintFreezeCommand(opts *RootOptions) *cobra.Command {
	var accountRef, signerName string
	var thaw bool

	cmd := &cobra.Command{
		Use:   "freeze",
		Short: "Freeze (or with --thaw, unfreeze) a token account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := opts.env.signer(signerName)
			if err != nil {
				return err
			}
			account, err := opts.env.resolve(accountRef)
			if err != nil {
				return err
			}
			api, err := opts.env.client()
			if err != nil {
				return err
			}

			req := &rpc.SetFrozenRequest{Account: account, Frozen: !thaw}
			acc, err := api.SetFrozen(client.WithSigners(cmd.Context(), signer), req)
			if err != nil {
				return WrapExitError(ExitFailure, "freeze", err)
			}
			return opts.output(cmd).Success(acc)
		},
	}
	cmd.Flags().StringVar(&accountRef, "account", "", "token account (key name or address)")
	cmd.Flags().StringVar(&signerName, "signer", "", "keystore key of the mint authority")
	cmd.Flags().BoolVar(&thaw, "thaw", false, "unfreeze instead")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("signer")
	return cmd
}

// resolveAll resolves refs in order.
func resolveAll(e *env, refs ...string) ([]identity.Identity, error) {
	ids := make([]identity.Identity, 0, len(refs))
	for _, r := range refs {
		id, err := e.resolve(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
