package main

import (
	"fmt"
	"io"
	"os"

	"github.com/influxdata/snsalert/services/diagnostic"
	"github.com/urfave/cli/v2"
)

// These variables are populated via the Go linker.
var (
	version string
	commit  string
	branch  string
)

func init() {
	// If commit or branch are not set, make that clear.
	if commit == "" {
		commit = "unknown"
	}
	if branch == "" {
		branch = "unknown"
	}
	if version == "" {
		version = "dev"
	}
}

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	m := &Main{
		Diag:   diagnostic.BootstrapMainHandler(),
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}
	return &cli.App{
		Name:      "snsalert",
		Usage:     "Publish alert check results to Amazon SNS topics and phone numbers",
		UsageText: "snsalert [command]",
		Version:   version,
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Print a sample configuration with default values",
				Action: m.printConfig,
			},
			{
				Name:   "fields",
				Usage:  "Print the configuration fields requested by the SNS alarm callback as JSON",
				Action: m.printFields,
			},
			{
				Name:   "attributes",
				Usage:  "Print the SNS callback configuration with secrets redacted",
				Flags:  []cli.Flag{configFlag()},
				Action: m.printAttributes,
			},
			{
				Name:      "send",
				Usage:     "Validate the configuration and dispatch a single check result",
				ArgsUsage: "[message]",
				Flags: []cli.Flag{
					configFlag(),
					streamFlag(),
					&cli.StringFlag{
						Name:  "message",
						Usage: "Result description to send; defaults to the first argument",
					},
				},
				Action: m.send,
			},
			{
				Name:  "run",
				Usage: "Dispatch one check result per line read from stdin until EOF or interrupt",
				Flags: []cli.Flag{
					configFlag(),
					streamFlag(),
					&cli.StringFlag{
						Name:  "level",
						Usage: "Alert level attached to every check result",
						Value: "CRITICAL",
					},
				},
				Action: m.run,
			},
		},
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the configuration file",
		EnvVars: []string{"SNSALERT_CONFIG_PATH"},
	}
}

func streamFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "stream",
		Usage: "ID of the stream the check result originates from",
		Value: "cli",
	}
}
