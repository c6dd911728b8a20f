package main

import (
	"context"
	"flag"
	"os"

	"github.com/millfloor/chipline/internal/platform/config"
	"github.com/millfloor/chipline/internal/tools/catalogcheck"
)

func main() {
	cfg, err := catalogcheck.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	if err := catalogcheck.Run(context.Background(), cfg, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
