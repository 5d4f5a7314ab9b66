package main

/* Tim Henderson (tadh@case.edu)
*
* Copyright (c) 2015, Tim Henderson, Case Western Reserve University
* Cleveland, Ohio 44106. All Rights Reserved.
*
* This library is free software; you can redistribute it and/or modify
* it under the terms of the GNU General Public License as published by
* the Free Software Foundation; either version 3 of the License, or (at
* your option) any later version.
*
* This library is distributed in the hope that it will be useful, but
* WITHOUT ANY WARRANTY; without even the implied warranty of
* MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
* General Public License for more details.
*
* You should have received a copy of the GNU General Public License
* along with this library; if not, write to the Free Software
* Foundation, Inc.,
*   51 Franklin Street, Fifth Floor,
*   Boston, MA  02110-1301
*   USA
 */

import (
	"fmt"
	"os"
	"path"
	"strconv"
)

import (
	"github.com/fatih/color"
	"github.com/timtadh/getopt"
	"go.uber.org/zap"
)

import (
	"github.com/timtadh/lindex"
	"github.com/timtadh/lindex/errors"
)

var ErrorCodes map[string]int = map[string]int{
	"usage":     0,
	"error":     1,
	"opts":      3,
	"badint":    5,
	"badfile":   7,
	"notfound":  8,
	"duplicate": 9,
	"malformed": 10,
	"io":        11,
	"config":    12,
	"short":     13,
}

var UsageMessage string = "lindex-cli [-v] <command> [options] <args>"
var ExtendedMessage string = `
lindex-cli -- build and query a B+ Tree index over a line oriented file

The first key-length bytes of every line are its key. Keys are unique.

Global Options
  -h, --help                view this message
  -v, --verbose             log what the index is doing to stderr

Commands

  create -k <int> <data file> <index file>
      index every line of the data file
      -k, --key-length=<int>    bytes at the start of a line forming its key
      -u, --uncompressed        do not compress the snapshot

  find <index file> <key>
      print the record with the key

  list <index file> <key> <count>
      print count records in key order starting at key

  insert <index file> <record>
      append the record to the data file and index it

  verify <index file>
      check the tree and that it agrees with the data file

  dump <index file>
      print the nodes of the tree

  seed -k <int> -n <int> <data file>
      write a data file of n lines with unique random keys
`

var (
	success = color.New(color.FgGreen, color.Bold)
	failure = color.New(color.FgRed, color.Bold)
	faint   = color.New(color.Faint)
)

func Usage(code int) {
	fmt.Fprintln(os.Stderr, UsageMessage)
	if code == 0 {
		fmt.Fprintln(os.Stdout, ExtendedMessage)
		code = ErrorCodes["usage"]
	} else {
		fmt.Fprintln(os.Stderr, "Try -h or --help for help")
	}
	os.Exit(code)
}

func ParseInt(str string) int {
	i, err := strconv.Atoi(str)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing '%v' expected an int\n", str)
		Usage(ErrorCodes["badint"])
	}
	return i
}

func AssertFile(fname string) string {
	fname = path.Clean(fname)
	fi, err := os.Stat(fname)
	if err != nil && os.IsNotExist(err) {
		return fname
	} else if err != nil {
		fmt.Fprintln(os.Stderr, err)
		Usage(ErrorCodes["badfile"])
	} else if fi.IsDir() {
		fmt.Fprintf(os.Stderr, "Passed in file was a directory, %s\n", fname)
		Usage(ErrorCodes["badfile"])
	}
	return fname
}

func AssertExists(fname string) string {
	fname = AssertFile(fname)
	if _, err := os.Stat(fname); err != nil {
		fmt.Fprintf(os.Stderr, "No such file, %s\n", fname)
		Usage(ErrorCodes["badfile"])
	}
	return fname
}

// ExitCode maps an error to its entry in ErrorCodes.
func ExitCode(err error) int {
	kinds := []struct {
		kind error
		code string
	}{
		{errors.ErrNotFound, "notfound"},
		{errors.ErrDuplicateKey, "duplicate"},
		{errors.ErrMalformedIndex, "malformed"},
		{errors.ErrIO, "io"},
		{errors.ErrConfig, "config"},
		{errors.ErrShortRecord, "short"},
	}
	for _, k := range kinds {
		if errors.Is(err, k.kind) {
			return ErrorCodes[k.code]
		}
	}
	return ErrorCodes["error"]
}

func Logger(verbose bool) *zap.Logger {
	var log *zap.Logger
	var err error
	if verbose {
		log, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		cfg.Encoding = "console"
		log, err = cfg.Build()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return zap.NewNop()
	}
	return log
}

type command func(cfg *lindex.Config, args []string) error

func main() {
	args, optargs, err := getopt.GetOpt(
		os.Args[1:],
		"hv",
		[]string{
			"help", "verbose",
		},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		Usage(ErrorCodes["opts"])
	}

	commands := map[string]command{
		"create": Create,
		"find":   Find,
		"list":   List,
		"insert": Insert,
		"verify": Verify,
		"dump":   Dump,
		"seed":   Seed,
	}

	verbose := false
	for _, oa := range optargs {
		switch oa.Opt() {
		case "-h", "--help":
			Usage(0)
		case "-v", "--verbose":
			verbose = true
		default:
			fmt.Fprintf(os.Stderr, "Unknown flag '%v'\n", oa.Opt())
			Usage(ErrorCodes["opts"])
		}
	}

	if len(args) <= 0 {
		fmt.Fprintln(os.Stderr, "Must supply a command, try --help")
		Usage(ErrorCodes["opts"])
	}

	cmd, has := commands[args[0]]
	if !has {
		fmt.Fprintf(os.Stderr, "Command '%v' not supported. Try --help to see the commands.\n", args[0])
		Usage(ErrorCodes["opts"])
	}

	log := Logger(verbose)
	cfg := &lindex.Config{Logger: log}
	err = cmd(cfg, args[1:])
	log.Sync()
	if err != nil {
		failure.Fprint(os.Stderr, "Error: ")
		if verbose {
			fmt.Fprintf(os.Stderr, "%+v\n", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(ExitCode(err))
	}
	success.Fprintln(os.Stdout, "Success")
}
