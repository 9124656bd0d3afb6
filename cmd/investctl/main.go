package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/simaogato/investtrack-backend/internal/cli"
	"github.com/simaogato/investtrack-backend/internal/config"
	"github.com/simaogato/investtrack-backend/internal/logging"
)

var (
	configFile = flag.String("config", "investtrack.toml", "Path to the TOML configuration file")
	format     = flag.String("format", "markdown", "Output format: markdown or terminal")
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(subcommands.ExitFailure))
	}
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(subcommands.ExitFailure))
	}

	app := cli.NewApp(cfg, logging.NewLogger(cfg.Logging.Level))
	app.Format = *format
	cli.Register(commander, app)

	os.Exit(int(commander.Execute(context.Background())))
}
