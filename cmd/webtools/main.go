package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"webtools/internal/cli"
)

func main() {
	if err := cli.New().Execute(context.Background()); err != nil {
		if !errors.Is(err, cli.ErrToolFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
