package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"github.com/pivotpoint/platform/core/evaluation"
	"github.com/pivotpoint/platform/core/practicum"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db       *sql.DB
	evalRepo evaluation.Repository
	pracRepo practicum.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [VERSION] - run database migrations (up, down, status, ...)")
	fmt.Println("  seed [-count N]           - load demo evaluations and practicum entries")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	seedCount := seedCmd.Int("count", 10, "How many demo evaluations to create.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.seed(*seedCount)
	default:
		cli.printUsage()
		return errHelp
	}
}
