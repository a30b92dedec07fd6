package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"TrendScreener/internal/screener"
)

var dateFlags = []cli.Flag{
	&cli.TimestampFlag{
		Name:    "start",
		Aliases: []string{"s"},
		Usage:   "Start date in `YYYY-MM-DD` format. Defaults to screen.start.",
		Config:  cli.TimestampConfig{Layouts: []string{"2006-01-02"}},
	},
	&cli.TimestampFlag{
		Name:    "end",
		Aliases: []string{"e"},
		Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
		Config:  cli.TimestampConfig{Layouts: []string{"2006-01-02"}},
	},
}

var listFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "scrips",
		Usage: "Description file listing the scrips. Defaults to screen.scrips.",
	},
	&cli.StringFlag{
		Name:    "filter",
		Aliases: []string{"r"},
		Usage:   "Regular expression matched at the start of ticker or company name",
	},
}

var screenFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "strategy",
		Usage: fmt.Sprintf("Strategy to run (%s)", strings.Join(screener.Names(), ", ")),
	},
	&cli.IntFlag{Name: "short", Usage: "Short EMA span override"},
	&cli.IntFlag{Name: "long", Usage: "Long EMA span override"},
	&cli.IntFlag{Name: "days-diff", Usage: "Bars between the two crossover checks"},
	&cli.IntFlag{Name: "days-delay", Usage: "Bars back from the latest where the crossover is evaluated"},
	&cli.IntFlag{Name: "workers", Aliases: []string{"j"}, Usage: "Concurrent symbols"},
	&cli.FloatFlag{Name: "min-volume", Aliases: []string{"v"}, Usage: "Minimum average volume"},
	&cli.StringFlag{Name: "trend", Aliases: []string{"t"}, Usage: "Trend filter: all, bullish, bearish, flat"},
	&cli.BoolFlag{Name: "no-progress", Usage: "Hide the progress bar"},
}

func concat(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "screener",
		Usage: "Technical indicator analysis and stock screening over daily bars",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config (defaults to $CONFIG_PATH or configs/config.yaml)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override log.level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "fetch",
				Usage:     "Download daily bars into the cache",
				ArgsUsage: "[SYMBOL...]",
				Flags:     concat(dateFlags, listFlags),
				Action:    withApp(fetchAction),
			},
			{
				Name:      "analyze",
				Usage:     "Print every indicator for one or more symbols",
				ArgsUsage: "SYMBOL...",
				Flags:     dateFlags,
				Action:    withApp(analyzeAction),
			},
			{
				Name:      "screen",
				Usage:     "Run a screening strategy over a scrip list",
				ArgsUsage: "[SYMBOL...]",
				Flags: concat(dateFlags, listFlags, screenFlags, []cli.Flag{
					&cli.BoolFlag{Name: "notify", Usage: "Send the report to Telegram"},
				}),
				Action: withApp(screenAction),
			},
			{
				Name:      "plot",
				Usage:     "Render price, volume, MACD and DMI panels to PNG",
				ArgsUsage: "SYMBOL...",
				Flags: concat(dateFlags, []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output directory. Defaults to chart.output_dir."},
				}),
				Action: withApp(plotAction),
			},
			{
				Name:      "export",
				Usage:     "Write daily bars of a scrip list to a Parquet file",
				ArgsUsage: "[SYMBOL...]",
				Flags: concat(dateFlags, listFlags, []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "bars.parquet", Usage: "Parquet file to write"},
				}),
				Action: withApp(exportAction),
			},
			{
				Name:  "scrips",
				Usage: "Build and inspect scrip description files",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "Print the filtered scrip list",
						Flags:  listFlags,
						Action: withApp(scripsListAction),
					},
					{
						Name:      "extract",
						Usage:     "Print BSE codes linked from saved screener.in result pages",
						ArgsUsage: "HTML_FILE...",
						Action:    scripsExtractAction,
					},
					{
						Name:      "join",
						Usage:     "Turn a list of BSE codes into a description file",
						ArgsUsage: "ID_FILE",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "bse", Usage: "BSE scrip list CSV", Required: true},
							&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file (stdout when empty)"},
						},
						Action: scripsJoinAction,
					},
				},
			},
			{
				Name:  "serve",
				Usage: "Run scheduled screens with Telegram reports and a metrics endpoint",
				Flags: concat(listFlags, screenFlags, []cli.Flag{
					&cli.BoolFlag{Name: "run-on-start", Usage: "Screen once immediately"},
				}),
				Action: withApp(serveAction),
			},
		},
	}
}

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
