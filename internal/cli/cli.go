// Package cli wires the pipeline stages into a go-flags command line.
// Each subcommand is one plain callable operation; an external
// workflow orchestrator sequences them per hourly bucket and owns
// retry policy.
package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Fetch     *FetchCommand
	Extract   *ExtractCommand
	Filter    *FilterCommand
	Load      *LoadCommand
	Summarize *SummarizeCommand
	Run       *RunCommand
	Status    *StatusCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "pageviews"
	parser.LongDescription = "Batch pipeline that tracks Wikipedia pageviews for a set of companies: download hourly dumps, filter tracked pages, load them into SQLite, and rank total views."

	cmds := &commands{
		Fetch:     &FetchCommand{globals: &globals},
		Extract:   &ExtractCommand{globals: &globals},
		Filter:    &FilterCommand{globals: &globals},
		Load:      &LoadCommand{globals: &globals},
		Summarize: &SummarizeCommand{globals: &globals},
		Run:       &RunCommand{globals: &globals},
		Status:    &StatusCommand{globals: &globals, version: version},
	}

	parser.AddCommand("fetch", "Download an hourly dump", "Download the compressed pageviews dump for one hourly bucket. Skipped if the file already exists.", cmds.Fetch)
	parser.AddCommand("extract", "Decompress a downloaded dump", "Decompress the raw dump for one hourly bucket. Skipped if the extracted file already exists.", cmds.Extract)
	parser.AddCommand("filter", "Filter a dump to tracked company pages", "Stream the decompressed dump and write matching records to a filtered CSV. Skipped if the CSV already exists.", cmds.Filter)
	parser.AddCommand("load", "Load a filtered CSV into the store", "Upsert the filtered records for one hourly bucket into SQLite. Safe to re-run; the bucket converges to the last load.", cmds.Load)
	parser.AddCommand("summarize", "Rank total views per company", "Aggregate stored pageviews over a bucket (or range) and print companies ranked by total views.", cmds.Summarize)
	parser.AddCommand("run", "Run all stages for one bucket", "Run fetch, extract, filter, load, and summarize in order for one hourly bucket.", cmds.Run)
	parser.AddCommand("status", "Show store statistics", "Show row counts, loaded bucket range, and top companies.", cmds.Status)

	return parser, &globals, cmds
}

// Run is the main entry point for the pageviews CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parsing (go-flags requires a subcommand,
	// but --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("pageviews %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
