package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/claude/liftnotes/internal/classify"
	"github.com/claude/liftnotes/internal/journal"
)

const usageLine = "Usage: liftnotes-parse [-format json|summary] [-explain] [-default-day LABEL] [file]"

var (
	format   = flag.String("format", "json", "output format: json or summary")
	explain  = flag.Bool("explain", false, "print how each line was read instead of the result")
	dayLabel = flag.String("default-day", "", "label for a day opened by exercises before the first header")
)

// liftnotes-parse parses a journal offline and prints the result.
func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n\nReads stdin when no file is given.\n\n", usageLine)
		flag.PrintDefaults()
	}
	flag.Parse()

	var (
		data []byte
		err  error
	)
	switch flag.NArg() {
	case 0:
		data, err = io.ReadAll(os.Stdin)
	case 1:
		data, err = os.ReadFile(flag.Arg(0))
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	text := strings.ToValidUTF8(string(data), "\uFFFD")

	if *explain {
		explainLines(os.Stdout, text)
		return
	}

	res := journal.New(journal.Options{DefaultDayLabel: *dayLabel}).Parse(text)
	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "summary":
		printSummary(os.Stdout, res)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", *format)
		os.Exit(2)
	}
}

func explainLines(w io.Writer, text string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()
	for i, line := range journal.SplitLines(text) {
		kind := "unrecognized"
		if label, ok := journal.ParseDayHeader(line); ok {
			kind = "header " + label
		} else if exs := journal.ParseLine(line); len(exs) > 1 {
			kind = fmt.Sprintf("superset of %d", len(exs))
		} else if name, ok := journal.Explain(line); ok {
			kind = name
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, kind, line)
	}
}

func printSummary(w io.Writer, res journal.Result) {
	for _, d := range res.Days {
		fmt.Fprintf(w, "%s (%d exercises)\n", d.DateLabel, len(d.Exercises))
		for _, ex := range d.Exercises {
			fmt.Fprintf(w, "  %-10s %s\n", ex.Kind(), ex.Movement)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Days: %d  Exercises: %d  Orphans: %d  Unrecognized: %d\n",
		len(res.Days), res.ExerciseCount(), len(res.Orphans), len(res.Unrecognized))

	fmt.Fprintln(w, "Muscle groups:")
	for _, g := range classify.Summary(res.Days) {
		if g.Intensity > 0 {
			fmt.Fprintf(w, "  %-12s %6.1f  %s\n", g.Name, g.Intensity, g.Level)
		}
	}
}
