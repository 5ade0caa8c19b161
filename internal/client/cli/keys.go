package cli

import (
	"github.com/spf13/cobra"
)

// NewKeygenCommand creates the keygen command.
func NewKeygenCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keygen <name>",
		Short: "Generate a signing key and store it in the keystore",
		Long: `Generate a new ed25519 key under <name>. The keystore is created on
first use and encrypted with the passphrase.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := opts.env.keystore(true)
			if err != nil {
				return err
			}
			kp, err := ks.Generate(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "keygen", err)
			}
			if err := ks.Save(); err != nil {
				return WrapExitError(ExitCommandError, "save keystore", err)
			}
			return opts.output(cmd).Success([]KeyInfo{{Name: args[0], Address: kp.Public.String()}})
		},
	}
}

// NewAddressCommand creates the address command.
func NewAddressCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "address [name...]",
		Short: "Show the addresses of keystore keys (all when no name is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := opts.env.keystore(false)
			if err != nil {
				return err
			}
			names := args
			if len(names) == 0 {
				names = ks.Names()
			}

			infos := make([]KeyInfo, 0, len(names))
			for _, n := range names {
				kp, err := ks.Get(n)
				if err != nil {
					return WrapExitError(ExitCommandError, "address", err)
				}
				infos = append(infos, KeyInfo{Name: n, Address: kp.Public.String()})
			}
			return opts.output(cmd).Success(infos)
		},
	}
}

func (o *RootOptions) output(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.cfg.Format, Writer: cmd.OutOrStdout()}
}
