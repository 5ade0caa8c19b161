package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/vaultkeeper/internal/client/cli"
)

func main() {

	cmd := cli.NewRootCommand()

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}

}
