package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/vaultkeeper/internal/rpc"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The server rejected the request
	ExitCommandError = 2 // Bad flags, config or keystore
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the JSON envelope for command output.
type CLIResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// KeyInfo is a named key and its address.
type KeyInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Success outputs a result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}

	w := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	switch v := data.(type) {
	case *rpc.Vault:
		writeVault(w, v)
	case *rpc.WithdrawResponse:
		fmt.Fprintf(w, "withdrawn:\t%d\n", v.Amount)
		writeVault(w, &v.Vault)
	case *rpc.DepositResponse:
		writeAccount(w, &v.Vault)
	case *rpc.Account:
		writeAccount(w, v)
	case *rpc.Mint:
		fmt.Fprintf(w, "mint:\t%s\nauthority:\t%s\ndecimals:\t%d\nsupply:\t%d\n", v.Address, v.Authority, v.Decimals, v.Supply)
	case *rpc.DeriveResponse:
		fmt.Fprintf(w, "program:\t%s\nsigner:\t%s\t(bump %d)\nvault:\t%s\t(bump %d)\n",
			v.ProgramID, v.Signer, v.SignerBump, v.Vault, v.VaultBump)
	case []KeyInfo:
		for _, k := range v {
			fmt.Fprintf(w, "%s\t%s\n", k.Name, k.Address)
		}
	default:
		fmt.Fprintln(w, data)
	}
	return w.Flush()
}

// Error outputs err in the configured format.
func (f *OutputFormatter) Error(err error) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "error", Error: err.Error()})
	}
	_, werr := fmt.Fprintf(f.Writer, "Error: %v\n", err)
	return werr
}

func writeVault(w io.Writer, v *rpc.Vault) {
	fmt.Fprintf(w, "record:\t%s\nauthority:\t%s\nvault:\t%s\nmint:\t%s\nbalance:\t%d\nwithdrawn:\t%d\nbumps:\tsigner %d, vault %d\n",
		v.Address, v.Authority, v.Vault, v.Mint, v.Balance, v.Withdrawn, v.SignerBump, v.VaultBump)
}

func writeAccount(w io.Writer, a *rpc.Account) {
	fmt.Fprintf(w, "account:\t%s\nmint:\t%s\nowner:\t%s\namount:\t%d\nfrozen:\t%t\n", a.Address, a.Mint, a.Owner, a.Amount, a.Frozen)
}
