// Command aiki manages feature and error catalogs.
package main

import (
	"os"

	"github.com/mesh-intelligence/aiki/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
