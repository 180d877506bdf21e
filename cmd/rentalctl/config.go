package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
)

var errMissingCommand = errors.New("missing command")

// Config holds the command line of one rentalctl invocation.
type Config struct {
	ConfigPath string
	EnvFile    string
	Command    string
	Args       []string
}

func parseFlags(args []string, output io.Writer) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("rentalctl", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.ConfigPath, "config", "", "Path to the YAML config file")
	fs.StringVar(&cfg.EnvFile, "env", ".env", "Path to an optional .env file")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(output, "Usage: rentalctl [flags] <%s> [command flags]\n", strings.Join(commandNames(), "|"))
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return Config{}, errMissingCommand
	}

	cfg.Command = fs.Arg(0)
	cfg.Args = fs.Args()[1:]

	if _, ok := commands[cfg.Command]; !ok {
		fs.Usage()
		return Config{}, fmt.Errorf("unknown command %q", cfg.Command)
	}

	return cfg, nil
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
