// Package main is the entry point for the nftlayers CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/setanarut/nftlayers/internal/cmd"
	oerrors "github.com/setanarut/nftlayers/internal/errors"
)

func main() {
	rootCmd := cmd.NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		var exitErr *oerrors.ExitError
		if errors.As(err, &exitErr) && exitErr.Printed {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(oerrors.ExitCodeFromError(err))
	}
}
