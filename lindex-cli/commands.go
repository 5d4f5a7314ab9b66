package main

import (
	"bufio"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strings"
)

import (
	"github.com/go-faker/faker/v4"
	"github.com/timtadh/getopt"
)

import (
	"github.com/timtadh/lindex"
	"github.com/timtadh/lindex/errors"
)

// parseOpts parses a subcommand's options, calling handle for each one
// other than -h, --help. It returns the remaining arguments.
func parseOpts(args []string, short string, long []string, handle func(opt, arg string)) []string {
	rest, optargs, err := getopt.GetOpt(args, "h"+short, append([]string{"help"}, long...))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		Usage(ErrorCodes["opts"])
	}
	for _, oa := range optargs {
		switch oa.Opt() {
		case "-h", "--help":
			Usage(0)
		default:
			handle(oa.Opt(), oa.Arg())
		}
	}
	return rest
}

func noOpts(opt, arg string) {}

func expectArgs(name string, args []string, n int) {
	if len(args) != n {
		fmt.Fprintf(os.Stderr, "%v expects %v arguments, got %v\n", name, n, len(args))
		Usage(ErrorCodes["opts"])
	}
}

func printRecord(rec *lindex.Record) {
	fmt.Fprintf(os.Stdout, "%s\t%s\n", rec.Data, faint.Sprintf("@%v+%v", rec.Offset, rec.Length))
}

func Create(cfg *lindex.Config, args []string) error {
	args = parseOpts(args, "k:u", []string{"key-length=", "uncompressed"}, func(opt, arg string) {
		switch opt {
		case "-k", "--key-length":
			cfg.KeyLength = ParseInt(arg)
		case "-u", "--uncompressed":
			cfg.Uncompressed = true
		}
	})
	if cfg.KeyLength == 0 {
		fmt.Fprintln(os.Stderr, "Must supply a key length with -k")
		Usage(ErrorCodes["opts"])
	}
	expectArgs("create", args, 2)
	data := AssertExists(args[0])
	index := AssertFile(args[1])
	stats, err := lindex.CreateIndex(cfg, data, index)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "indexed %v of %v lines (%v duplicate, %v blank)\n",
		stats.Indexed, stats.Lines, stats.Duplicates, stats.Blank)
	fmt.Fprintf(os.Stdout, "degree %v, height %v, %v bytes\n", stats.Degree, stats.Height, stats.Bytes)
	return nil
}

func Find(cfg *lindex.Config, args []string) error {
	args = parseOpts(args, "", nil, noOpts)
	expectArgs("find", args, 2)
	idx, err := lindex.Open(AssertExists(args[0]), cfg)
	if err != nil {
		return err
	}
	rec, has, err := idx.Find([]byte(args[1]))
	if err != nil {
		return err
	}
	if !has {
		return errors.Kindf(errors.ErrNotFound, "key %q", args[1])
	}
	printRecord(rec)
	return nil
}

func List(cfg *lindex.Config, args []string) error {
	args = parseOpts(args, "", nil, noOpts)
	expectArgs("list", args, 3)
	count := ParseInt(args[2])
	idx, err := lindex.Open(AssertExists(args[0]), cfg)
	if err != nil {
		return err
	}
	has, err := idx.DoList([]byte(args[1]), count, func(rec *lindex.Record) error {
		printRecord(rec)
		return nil
	})
	if err != nil {
		return err
	}
	if !has {
		return errors.Kindf(errors.ErrNotFound, "key %q", args[1])
	}
	return nil
}

func Insert(cfg *lindex.Config, args []string) error {
	args = parseOpts(args, "", nil, noOpts)
	expectArgs("insert", args, 2)
	idx, err := lindex.Open(AssertExists(args[0]), cfg)
	if err != nil {
		return err
	}
	rec, err := idx.Insert([]byte(args[1]))
	if err != nil {
		return err
	}
	printRecord(rec)
	return nil
}

func Verify(cfg *lindex.Config, args []string) error {
	args = parseOpts(args, "", nil, noOpts)
	expectArgs("verify", args, 1)
	idx, err := lindex.Open(AssertExists(args[0]), cfg)
	if err != nil {
		return err
	}
	if err := idx.Verify(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%v records, height %v\n", idx.Size(), idx.Height())
	return nil
}

func Dump(cfg *lindex.Config, args []string) error {
	args = parseOpts(args, "", nil, noOpts)
	expectArgs("dump", args, 1)
	idx, err := lindex.Open(AssertExists(args[0]), cfg)
	if err != nil {
		return err
	}
	h := idx.Header()
	fmt.Fprintf(os.Stdout, "data file:  %v\nkey length: %v\nroot:       %q\n", h.DataFile, h.KeyLength, h.RootMarker)
	return idx.Dump(os.Stdout)
}

// Seed writes n lines of faker text, each starting with a distinct
// zero padded number of key-length digits.
func Seed(cfg *lindex.Config, args []string) error {
	keyLen, lines := 0, 0
	args = parseOpts(args, "k:n:", []string{"key-length=", "lines="}, func(opt, arg string) {
		switch opt {
		case "-k", "--key-length":
			keyLen = ParseInt(arg)
		case "-n", "--lines":
			lines = ParseInt(arg)
		}
	})
	expectArgs("seed", args, 1)
	if keyLen <= 0 || lines <= 0 {
		fmt.Fprintln(os.Stderr, "Must supply a positive key length (-k) and line count (-n)")
		Usage(ErrorCodes["opts"])
	}
	if keyLen < 19 && float64(lines) > math.Pow10(keyLen) {
		return errors.Kindf(errors.ErrConfig, "%v lines need more than %v digit keys", lines, keyLen)
	}
	f, err := os.Create(AssertFile(args[0]))
	if err != nil {
		return errors.IO("create", args[0], err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, i := range rand.Perm(lines) {
		text := strings.ReplaceAll(faker.Sentence(), "\n", " ")
		if _, err := fmt.Fprintf(w, "%0*d %s\n", keyLen, i, text); err != nil {
			return errors.IO("write", args[0], err)
		}
	}
	if err := w.Flush(); err != nil {
		return errors.IO("write", args[0], err)
	}
	if err := f.Sync(); err != nil {
		return errors.IO("sync", args[0], err)
	}
	cfg.Logger.Info("seeded data file")
	return nil
}
