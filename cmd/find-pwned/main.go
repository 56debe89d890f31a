// Copyright 2026 The pwnedpass Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Command find-pwned reports how often passwords appear in a breach
// corpus, such as the "Pwned Passwords" dumps published by
// haveibeenpwned.com.
//
// Queries are SHA-1 digests in hex, or plain passwords with --password.
// They are taken from the command line, or read one per line from
// standard input when no operands are given:
//
//	$ find-pwned f3bbbd66a63d4bf1747940578ec3d0103530e21d
//	9545824
//	$ echo hunter2 | find-pwned --password --print-hash
//	F3BBBD66A63D4BF1747940578EC3D0103530E21D:17043
//
// The exit status is 0 when every query was found, 1 when any query was
// absent or malformed or the input stopped being readable, 2 for usage
// errors, and 3 when the corpus cannot be used at all.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/pwnedpass/pwnedpass"
	"github.com/pwnedpass/pwnedpass/corpus"
	"github.com/pwnedpass/pwnedpass/internal/secret"
	"github.com/pwnedpass/pwnedpass/internal/unsafestring"
	"github.com/pwnedpass/pwnedpass/sha1"
)

const version = "3.0.0"

// Exit statuses. Shell scripts branch on these, so they are part of the
// command's contract.
const (
	exitOK       = 0 // every query was found (also --help and --version)
	exitNotFound = 1 // a query was absent or malformed, or input ran dry mid-batch
	exitUsage    = 2
	exitCorpus   = 3
)

// inputError marks a failure reading queries from stdin or the terminal.
// It ends the run with exitNotFound, not exitCorpus: the corpus is fine,
// but the unread queries were never found.
type inputError struct{ err error }

func (e *inputError) Error() string { return e.err.Error() }
func (e *inputError) Unwrap() error { return e.err }

type options struct {
	file     string
	format   string
	password bool
	delim    string
	quiet    bool
	secure   bool
	verbose  bool
	version  bool

	printIndex    bool
	printPassword bool
	printHash     bool
	printCount    bool
	printFound    bool
	printNotFound bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("find-pwned", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.SortFlags = false
	flags.Usage = func() {
		fmt.Fprintf(stderr, `usage: find-pwned [options] [query ...]

Each query is a 40-character hex SHA-1 digest, or a password when
--password is given. With no query operands, queries are read from
standard input, one per line.

Options:
%s`, flags.FlagUsages())
	}

	var opts options
	flags.StringVarP(&opts.file, "file", "f", "pwned-passwords-ordered-by-hash.bin", "corpus file to search")
	flags.StringVar(&opts.format, "format", "binary", "corpus record encoding, binary or text")
	flags.BoolVarP(&opts.password, "password", "p", false, "queries are passwords, not hex digests")
	flags.StringVarP(&opts.delim, "delimiter", "d", ":", "separator between output fields")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "print nothing; the exit status carries the answer")
	flags.BoolVar(&opts.secure, "secure", true, "disable terminal echo while reading passwords")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging on stderr")
	flags.BoolVarP(&opts.version, "version", "V", false, "print version and exit")
	flags.BoolVar(&opts.printIndex, "print-index", false, "print the 1-based index of each query")
	flags.BoolVar(&opts.printPassword, "print-password", false, "print the password of each query")
	flags.BoolVar(&opts.printHash, "print-hash", false, "print the digest of each query in uppercase hex")
	flags.BoolVar(&opts.printCount, "print-count", true, "print the occurrence count of each query")
	flags.BoolVar(&opts.printFound, "print-found", true, "print queries that are in the corpus")
	flags.BoolVar(&opts.printNotFound, "print-not-found", true, "print queries that are not in the corpus")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "find-pwned: %v\n", err)
		flags.Usage()
		return exitUsage
	}
	if opts.version {
		fmt.Fprintf(stdout, "find-pwned v%s\nCopyright 2026 The pwnedpass Authors. MIT License.\n", version)
		return exitOK
	}
	if opts.printPassword && !opts.password {
		fmt.Fprintln(stderr, "find-pwned: --print-password requires --password")
		return exitUsage
	}
	format, err := corpus.ParseFormat(opts.format)
	if err != nil {
		fmt.Fprintf(stderr, "find-pwned: %v\n", err)
		return exitUsage
	}

	log := newLogger(stderr, opts.verbose)

	db, err := pwnedpass.Open(opts.file, format)
	if err != nil {
		fmt.Fprintf(stderr, "find-pwned: %v\n", err)
		return exitCorpus
	}
	defer db.Close()
	log.Debug("corpus opened",
		"path", opts.file, "format", format.String(), "bytes", db.Size(), "records", db.Len())

	r := &runner{db: db, opts: &opts, out: stdout, errw: stderr, log: log}
	if queries := flags.Args(); len(queries) > 0 {
		err = r.consumeArgs(queries)
	} else {
		err = r.consumeStdin(stdin)
	}
	if err != nil {
		fmt.Fprintf(stderr, "find-pwned: %v\n", err)
		var inErr *inputError
		if errors.As(err, &inErr) {
			return exitNotFound
		}
		return exitCorpus
	}
	if r.missed {
		return exitNotFound
	}
	return exitOK
}

// newLogger writes human-readable records when stderr is a terminal and
// JSON when it is redirected.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// runner resolves queries against an open database and renders one
// output line per query. Errors it returns are corpus integrity or
// input read failures; malformed queries are reported on stderr and
// recorded in missed instead, so a batch keeps going.
type runner struct {
	db   *pwnedpass.DB
	opts *options
	out  io.Writer
	errw io.Writer
	log  *slog.Logger

	index  uint64 // queries handled so far; first query is 1
	missed bool   // some query was absent or malformed
}

func (r *runner) consumeArgs(queries []string) error {
	for _, q := range queries {
		var err error
		if r.opts.password {
			// Operands are already exposed in the process argument
			// list, so there is nothing left to protect here.
			err = r.passwordQuery(unsafestring.ToBytes(q))
		} else {
			err = r.hashQuery(q)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) consumeStdin(stdin io.Reader) error {
	if r.opts.password && r.opts.secure {
		if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return r.consumeTerminal(f)
		}
	}
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		var err error
		if r.opts.password {
			err = r.securePasswordQuery(scanner.Bytes())
		} else {
			err = r.hashQuery(scanner.Text())
		}
		if err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return &inputError{fmt.Errorf("reading stdin: %w", err)}
	}
	return nil
}

// consumeTerminal reads passwords interactively with echo disabled, one
// per line until end of input.
func (r *runner) consumeTerminal(f *os.File) error {
	fd := int(f.Fd())
	for {
		line, err := term.ReadPassword(fd)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return &inputError{fmt.Errorf("term.ReadPassword: %w", err)}
		}
		if err := r.securePasswordQuery(line); err != nil {
			return err
		}
	}
}

// securePasswordQuery moves a password read from stdin into mlocked
// memory and zeroes the original line buffer before hashing. If locked
// memory is unavailable (RLIMIT_MEMLOCK exhausted), the lookup still
// happens; the password is zeroed by hand afterwards.
func (r *runner) securePasswordQuery(line []byte) error {
	if len(line) == 0 {
		// The empty password appears in real breach dumps.
		return r.passwordQuery(nil)
	}
	buf, err := secret.NewFromBytes(line)
	if err != nil {
		r.log.Warn("password buffer not locked", "err", err)
		defer secret.Zero(line)
		return r.passwordQuery(line)
	}
	defer buf.Close()
	return r.passwordQuery(buf.Bytes())
}

func (r *runner) passwordQuery(pw []byte) error {
	r.index++
	digest := sha1.Sum(pw)
	count, found, err := r.db.CheckHash(digest)
	if err != nil {
		return err
	}
	if !found {
		r.missed = true
	}
	r.log.Debug("query", "index", r.index, "digest", digest.Hex(sha1.Upper), "found", found, "count", count)
	r.render(digest, pw, count, found)
	return nil
}

func (r *runner) hashQuery(q string) error {
	r.index++
	digest, err := sha1.ParseDigest(q)
	if err != nil {
		fmt.Fprintf(r.errw, "find-pwned: query %d: %v\n", r.index, err)
		r.missed = true
		return nil
	}
	count, found, err := r.db.CheckHash(digest)
	if err != nil {
		return err
	}
	if !found {
		r.missed = true
	}
	r.log.Debug("query", "index", r.index, "digest", digest.Hex(sha1.Upper), "found", found, "count", count)
	r.render(digest, nil, count, found)
	return nil
}

// render writes one line for a resolved query, honoring the print-*
// selection flags. Enabled fields appear in a fixed order (index,
// password, digest, count) separated by the delimiter; if no field is
// enabled, nothing is printed at all.
func (r *runner) render(digest sha1.Digest, pw []byte, count uint64, found bool) {
	if r.opts.quiet {
		return
	}
	if found && !r.opts.printFound {
		return
	}
	if !found && !r.opts.printNotFound {
		return
	}
	var (
		line     []byte
		delim    string
		rendered bool
	)
	if r.opts.printIndex {
		line = append(line, delim...)
		line = strconv.AppendUint(line, r.index, 10)
		delim, rendered = r.opts.delim, true
	}
	if r.opts.printPassword && r.opts.password {
		line = append(line, delim...)
		line = append(line, pw...)
		delim, rendered = r.opts.delim, true
	}
	if r.opts.printHash {
		line = append(line, delim...)
		line = digest.AppendHex(line, sha1.Upper)
		delim, rendered = r.opts.delim, true
	}
	if r.opts.printCount {
		line = append(line, delim...)
		line = strconv.AppendUint(line, count, 10)
		rendered = true
	}
	if rendered {
		line = append(line, '\n')
		r.out.Write(line)
	}
}
