package cli

import (
	"github.com/dmitrijs2005/vaultkeeper/internal/client/client"
	"github.com/dmitrijs2005/vaultkeeper/internal/rpc"
	"github.com/spf13/cobra"
)

// NewVaultCommand groups the vault operations.
func NewVaultCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Initialize, fund, drain and inspect vaults",
	}
	cmd.AddCommand(newVaultInitCommand(opts))
	cmd.AddCommand(newVaultSetAuthorityCommand(opts))
	cmd.AddCommand(newVaultDepositCommand(opts))
	cmd.AddCommand(newVaultWithdrawCommand(opts))
	cmd.AddCommand(newVaultShowCommand(opts))
	return cmd
}

func newVaultInitCommand(opts *RootOptions) *cobra.Command {
	var authorityRef, mintRef, payerName string

	cmd := &cobra.Command{
		Use:   "init <record-key>",
		Short: "Create a vault record at the address of keystore key <record-key>",
		Long: `Create a vault record and its holding account. The record key and the
payer key both sign; the authority is only recorded and may be any address.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := opts.env.signer(args[0])
			if err != nil {
				return err
			}
			payer, err := opts.env.signer(payerName)
			if err != nil {
				return err
			}
			ids, err := resolveAll(opts.env, authorityRef, mintRef)
			if err != nil {
				return err
			}
			api, err := opts.env.client()
			if err != nil {
				return err
			}

			req := &rpc.InitializeRequest{Record: record.Public, Authority: ids[0], Mint: ids[1], Payer: payer.Public}
			v, err := api.Initialize(client.WithSigners(cmd.Context(), payer, record), req)
			if err != nil {
				return WrapExitError(ExitFailure, "initialize", err)
			}
			return opts.output(cmd).Success(v)
		},
	}
	cmd.Flags().StringVar(&authorityRef, "authority", "", "vault authority (key name or address)")
	cmd.Flags().StringVar(&mintRef, "mint", "", "mint the vault holds")
	cmd.Flags().StringVar(&payerName, "payer", "", "keystore key paying for creation")
	for _, f := range []string{"authority", "mint", "payer"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newVaultSetAuthorityCommand(opts *RootOptions) *cobra.Command {
	var newAuthorityRef, signerName string

	cmd := &cobra.Command{
		Use:   "set-authority <record>",
		Short: "Hand a vault to a new authority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := opts.env.signer(signerName)
			if err != nil {
				return err
			}
			ids, err := resolveAll(opts.env, args[0], newAuthorityRef)
			if err != nil {
				return err
			}
			api, err := opts.env.client()
			if err != nil {
				return err
			}

			req := &rpc.UpdateAuthorityRequest{Record: ids[0], NewAuthority: ids[1]}
			v, err := api.UpdateAuthority(client.WithSigners(cmd.Context(), signer), req)
			if err != nil {
				return WrapExitError(ExitFailure, "set authority", err)
			}
			return opts.output(cmd).Success(v)
		},
	}
	cmd.Flags().StringVar(&newAuthorityRef, "new-authority", "", "new authority (key name or address)")
	cmd.Flags().StringVar(&signerName, "signer", "", "keystore key of the current authority")
	_ = cmd.MarkFlagRequired("new-authority")
	_ = cmd.MarkFlagRequired("signer")
	return cmd
}

func newVaultDepositCommand(opts *RootOptions) *cobra.Command {
	var sourceRef, signerName string
	var amount uint64

	cmd := &cobra.Command{
		Use:   "deposit <record>",
		Short: "Move tokens from a source account into the vault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := opts.env.signer(signerName)
			if err != nil {
				return err
			}
			ids, err := resolveAll(opts.env, args[0], sourceRef)
			if err != nil {
				return err
			}
			api, err := opts.env.client()
			if err != nil {
				return err
			}

			v, err := api.GetVault(cmd.Context(), ids[0])
			if err != nil {
				return WrapExitError(ExitFailure, "vault", err)
			}
			req := &rpc.DepositRequest{Record: ids[0], Vault: v.Vault, Source: ids[1], Amount: amount}
			resp, err := api.Deposit(client.WithSigners(cmd.Context(), signer), req)
			if err != nil {
				return WrapExitError(ExitFailure, "deposit", err)
			}
			return opts.output(cmd).Success(resp)
		},
	}
	cmd.Flags().StringVar(&sourceRef, "source", "", "token account to pay from")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "amount in base units")
	cmd.Flags().StringVar(&signerName, "signer", "", "keystore key of the source owner")
	for _, f := range []string{"source", "amount", "signer"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newVaultWithdrawCommand(opts *RootOptions) *cobra.Command {
	var destRef, signerName string

	cmd := &cobra.Command{
		Use:   "withdraw <record>",
		Short: "Drain the whole vault balance into a destination account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := opts.env.signer(signerName)
			if err != nil {
				return err
			}
			ids, err := resolveAll(opts.env, args[0], destRef)
			if err != nil {
				return err
			}
			api, err := opts.env.client()
			if err != nil {
				return err
			}

			v, err := api.GetVault(cmd.Context(), ids[0])
			if err != nil {
				return WrapExitError(ExitFailure, "vault", err)
			}
			req := &rpc.WithdrawRequest{Record: ids[0], Vault: v.Vault, Destination: ids[1]}
			resp, err := api.Withdraw(client.WithSigners(cmd.Context(), signer), req)
			if err != nil {
				return WrapExitError(ExitFailure, "withdraw", err)
			}
			return opts.output(cmd).Success(resp)
		},
	}
	cmd.Flags().StringVar(&destRef, "to", "", "destination token account")
	cmd.Flags().StringVar(&signerName, "signer", "", "keystore key of the vault authority")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("signer")
	return cmd
}

func newVaultShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <record>",
		Short: "Show a vault record and its balance",
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
			v, err := api.GetVault(cmd.Context(), record)
			if err != nil {
				return WrapExitError(ExitFailure, "vault", err)
			}
			return opts.output(cmd).Success(v)
		},
	}
}
