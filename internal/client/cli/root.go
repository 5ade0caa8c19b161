package cli

import (
	"fmt"
	"slices"

	"github.com/dmitrijs2005/vaultkeeper/internal/client/config"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags and the state shared by subcommands.
type RootOptions struct {
	ConfigPath string
	Server     string
	Keystore   string
	Format     string

	cfg *config.Config
	env *env
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for vaultctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "vaultctl",
		Short:         "VaultKeeper client",
		Long:          "Manage custodial vaults, mints and token accounts on a VaultKeeper server.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.env != nil {
				return opts.env.close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (JSON or YAML)")
	cmd.PersistentFlags().StringVarP(&opts.Server, "server", "s", "", "server address host:port")
	cmd.PersistentFlags().StringVarP(&opts.Keystore, "keystore", "k", "", "keystore file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "", "output format (json|text)")

	cmd.AddCommand(NewKeygenCommand(opts))
	cmd.AddCommand(NewAddressCommand(opts))
	cmd.AddCommand(NewDeriveCommand(opts))
	cmd.AddCommand(NewMintCommand(opts))
	cmd.AddCommand(NewAccountCommand(opts))
	cmd.AddCommand(NewVaultCommand(opts))
	cmd.AddCommand(NewPingCommand(opts))

	return cmd
}

// load reads the config file and lets explicit flags override it.
func (o *RootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "load config", err)
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.ServerEndpointAddr = o.Server
	}
	if flags.Changed("keystore") {
		cfg.KeystorePath = o.Keystore
	}
	if flags.Changed("format") {
		cfg.Format = o.Format
	}

	if !slices.Contains(ValidFormats, cfg.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", cfg.Format, ValidFormats))
	}

	o.cfg = cfg
	o.env = newEnv(cfg, cmd.InOrStdin(), cmd.ErrOrStderr())
	return nil
}
