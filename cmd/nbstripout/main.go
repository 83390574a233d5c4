// Command nbstripout strips output from Jupyter and Zeppelin notebooks.
package main

import (
	"os"

	"github.com/roach88/nbstripout/internal/cli"
)

func main() {
	os.Exit(cli.Execute(cli.NewRootCommand()))
}
