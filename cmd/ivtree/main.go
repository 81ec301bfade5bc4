// Command ivtree builds interval trees from CSV ranges, stores them in the
// binary tree format and answers overlap queries against stored trees.
//
//	ivtree build -i ranges.csv -o ranges.ivt
//	ivtree query -t ranges.ivt -q 1780:1790
//	ivtree dump -t ranges.ivt
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	intervaltree "github.com/AlexWan0/go-intervaltree"
)

const usage = `usage: ivtree <command> [flags]

commands:
  build   read low,high[,payload] rows from a CSV file and write a tree file
  query   print the intervals of a tree file overlapping low:high (or a point)
  dump    print every interval of a tree file in ascending order
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "build":
		err = runBuild(os.Args[2:], os.Stdout)
	case "query":
		err = runQuery(os.Args[2:], os.Stdout)
	case "dump":
		err = runDump(os.Args[2:], os.Stdout)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ivtree: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func runBuild(args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("build", pflag.ContinueOnError)
	input := fs.StringP("input", "i", "", "CSV file with one low,high[,payload] row per interval. A non-numeric first row is taken as a header.")
	output := fs.StringP("output", "o", "", "Path of the tree file to write.")
	verbose := fs.Bool("verbose", false, "Verbose output, helps when troubleshooting.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" || *output == "" {
		fs.Usage()
		return errors.New("both --input and --output are required")
	}
	lg, err := newLogger(*verbose)
	if err != nil {
		return err
	}
	defer lg.Sync() //nolint:errcheck

	ivs, err := readIntervalsFile(*input)
	if err != nil {
		return err
	}
	tree, err := intervaltree.New(ivs, intervaltree.WithLogger(lg))
	if err != nil {
		return errors.Wrapf(err, "building tree from %s", *input)
	}
	if err := writeTree(*output, tree, lg); err != nil {
		return err
	}
	lg.Info("wrote tree", zap.String("path", *output), zap.Int("intervals", tree.Len()))
	fmt.Fprintf(out, "wrote %d intervals to %s\n", tree.Len(), *output)
	return nil
}

func runQuery(args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("query", pflag.ContinueOnError)
	treeFile := fs.StringP("tree", "t", "", "Tree file written by ivtree build.")
	q := fs.StringP("query", "q", "", "Query interval as low:high, or a single point.")
	verbose := fs.Bool("verbose", false, "Verbose output, helps when troubleshooting.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *treeFile == "" || *q == "" {
		fs.Usage()
		return errors.New("both --tree and --query are required")
	}
	lg, err := newLogger(*verbose)
	if err != nil {
		return err
	}
	defer lg.Sync() //nolint:errcheck

	query, err := parseQuery(*q)
	if err != nil {
		return err
	}
	tree, err := readTree(*treeFile, lg)
	if err != nil {
		return err
	}
	matches := tree.Search(query)
	lg.Debug("searched tree", zap.Stringer("query", query), zap.Int("matches", len(matches)))
	return writeIntervals(out, matches)
}

func runDump(args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("dump", pflag.ContinueOnError)
	treeFile := fs.StringP("tree", "t", "", "Tree file written by ivtree build.")
	verbose := fs.Bool("verbose", false, "Verbose output, helps when troubleshooting.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *treeFile == "" {
		fs.Usage()
		return errors.New("--tree is required")
	}
	lg, err := newLogger(*verbose)
	if err != nil {
		return err
	}
	defer lg.Sync() //nolint:errcheck

	tree, err := readTree(*treeFile, lg)
	if err != nil {
		return err
	}
	return writeIntervals(out, tree.Intervals())
}
