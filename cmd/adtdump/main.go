// Command adtdump inspects Advantage .adt table files.
package main

import (
	"os"

	"github.com/Ulysses-Xu/go-adt/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
