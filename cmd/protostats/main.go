package main

import (
	"flag"
	"fmt"
	"os"

	"protostats/internal/di"
	"protostats/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "enable debug logging")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "protostats: %s\n", err)
		os.Exit(1)
	}
}
