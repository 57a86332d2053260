// Command devtool bundles operator tasks for the meta service: schema
// migrations, session cleanup and health probes.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func newRegistry() *Registry {
	r := NewRegistry()
	r.Register(&MigrateCommand{})
	r.Register(&PurgeSessionsCommand{})
	r.Register(&WaitForStoreCommand{})
	r.Register(&HealthCheckCommand{})
	return r
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	registry := newRegistry()
	if len(os.Args) < 2 {
		registry.PrintHelp(os.Stdout)
		os.Exit(1)
	}

	cmd, ok := registry.Get(os.Args[1])
	if !ok {
		PrintError("unknown command %q", os.Args[1])
		registry.PrintHelp(os.Stdout)
		os.Exit(1)
	}

	if err := cmd.Run(os.Args[2:]); err != nil {
		PrintError("%s: %v", cmd.Name(), err)
		os.Exit(1)
	}
}
