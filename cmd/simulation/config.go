package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

const (
	defaultWorkers   = 16
	defaultRequests  = 5000
	defaultItems     = 50
	defaultCopies    = 3
	defaultBorrowers = 120
	defaultAdmins    = 2
)

// Config holds all simulation configuration parameters.
type Config struct {
	ConfigPath string
	EnvFile    string

	Workers   int
	Requests  int
	Rate      int
	Items     int
	Copies    int
	Borrowers int
	Admins    int

	Mix        ScenarioMix
	RepeatRate float64
	Truncate   bool
	CPUProfile string
}

// ScenarioMix holds the relative weights the selector draws scenarios with.
type ScenarioMix struct {
	Borrow      int
	Return      int
	ReportLoss  int
	ConfirmLoss int
	QuerySlots  int
}

func (m ScenarioMix) total() int {
	return m.Borrow + m.Return + m.ReportLoss + m.ConfirmLoss + m.QuerySlots
}

func defaultMix() ScenarioMix {
	return ScenarioMix{Borrow: 50, Return: 35, ReportLoss: 5, ConfirmLoss: 5, QuerySlots: 5}
}

// parseFlags parses the command line into a Config.
func parseFlags(args []string, output io.Writer) (Config, error) {
	cfg := Config{Mix: defaultMix()}

	fs := flag.NewFlagSet("simulation", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.ConfigPath, "config", "", "Path to the YAML config file")
	fs.StringVar(&cfg.EnvFile, "env", ".env", "Path to an optional .env file")
	fs.IntVar(&cfg.Workers, "workers", defaultWorkers, "Number of concurrent workers")
	fs.IntVar(&cfg.Requests, "requests", defaultRequests, "Number of scenarios to run")
	fs.IntVar(&cfg.Rate, "rate", 0, "Scenarios per second, 0 for as fast as possible")
	fs.IntVar(&cfg.Items, "items", defaultItems, "Number of catalog items")
	fs.IntVar(&cfg.Copies, "copies", defaultCopies, "Copies per catalog item")
	fs.IntVar(&cfg.Borrowers, "borrowers", defaultBorrowers, "Number of USER borrowers")
	fs.IntVar(&cfg.Admins, "admins", defaultAdmins, "Number of ADMIN borrowers")
	fs.IntVar(&cfg.Mix.Borrow, "mix-borrow", cfg.Mix.Borrow, "Weight of borrow scenarios")
	fs.IntVar(&cfg.Mix.Return, "mix-return", cfg.Mix.Return, "Weight of return scenarios")
	fs.IntVar(&cfg.Mix.ReportLoss, "mix-report-loss", cfg.Mix.ReportLoss, "Weight of loss report scenarios")
	fs.IntVar(&cfg.Mix.ConfirmLoss, "mix-confirm-loss", cfg.Mix.ConfirmLoss, "Weight of loss confirmation scenarios")
	fs.IntVar(&cfg.Mix.QuerySlots, "mix-query-slots", cfg.Mix.QuerySlots, "Weight of remaining slots queries")
	fs.Float64Var(&cfg.RepeatRate, "repeat-rate", 0.02, "Probability (0-1) to repeat a scenario right away")
	fs.BoolVar(&cfg.Truncate, "truncate", false, "Truncate the ledger tables before the run")
	fs.StringVar(&cfg.CPUProfile, "cpuprofile", "", "write cpu profile to file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

var errInvalidFlag = errors.New("invalid flag value")

func (cfg Config) validate() error {
	switch {
	case cfg.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive", errInvalidFlag)
	case cfg.Items <= 0 || cfg.Copies <= 0:
		return fmt.Errorf("%w: items and copies must be positive", errInvalidFlag)
	case cfg.Borrowers <= 0 || cfg.Admins <= 0:
		return fmt.Errorf("%w: at least one borrower and one admin are needed", errInvalidFlag)
	case cfg.Requests < 0 || cfg.Rate < 0:
		return fmt.Errorf("%w: requests and rate must not be negative", errInvalidFlag)
	case cfg.RepeatRate < 0 || cfg.RepeatRate > 1:
		return fmt.Errorf("%w: repeat-rate must be between 0 and 1", errInvalidFlag)
	case cfg.Mix.Borrow < 0 || cfg.Mix.Return < 0 || cfg.Mix.ReportLoss < 0 || cfg.Mix.ConfirmLoss < 0 || cfg.Mix.QuerySlots < 0:
		return fmt.Errorf("%w: mix weights must not be negative", errInvalidFlag)
	case cfg.Mix.total() == 0:
		return fmt.Errorf("%w: at least one mix weight must be positive", errInvalidFlag)
	}

	return nil
}
