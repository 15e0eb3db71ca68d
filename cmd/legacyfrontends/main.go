// Where: cmd/legacyfrontends/main.go
// What: CLI entrypoint.
// Why: Execute commands with the compiled-in plugins and runtime dependencies.
package main

import (
	"os"

	"github.com/poruru-code/legacyfrontends/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:], buildDependencies()))
}
