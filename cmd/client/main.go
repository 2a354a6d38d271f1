package main

import (
	"fmt"
	"os"

	"github.com/quotevote/authkeeper/internal/client/cli"
)

func main() {
	app := cli.NewApp(cli.DialGRPC, os.Stdin, os.Stdout, os.Stderr)
	if err := app.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
