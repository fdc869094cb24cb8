package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"

	zipcdir "github.com/mattkeenan/zipcdir/pkg"
)

// Command lists the central directory of each archive named on the command line
type Command struct {
	Config     string   `short:"c" long:"config" value-name:"FILE" description:"config file (default $XDG_CONFIG_HOME/zipls/config)"`
	Format     string   `short:"f" long:"format" choice:"names" choice:"long" choice:"json" description:"output format, overrides [output] format"`
	Human      bool     `short:"H" long:"human" description:"human-readable sizes in long format"`
	Null       bool     `short:"0" long:"null" description:"end each name with NUL instead of newline"`
	Sorted     bool     `short:"s" long:"sorted" description:"list entries in name order instead of directory order"`
	Find       string   `long:"find" value-name:"NAME" description:"list only the entry with this exact name"`
	Verbose    []bool   `short:"v" long:"verbose" description:"increase verbosity, repeat for more"`
	Debug      string   `short:"d" long:"debug" value-name:"FLAGS" description:"comma-separated debug flags: eocd,cdwalk,states,layout"`
	Set        []string `long:"set" value-name:"KEY:VALUE" description:"override a config value, e.g. max_size:1G"`
	NoMmap     bool     `long:"no-mmap" description:"read archives into memory instead of mapping them"`
	NoExtCheck bool     `long:"no-ext-check" description:"accept archives whose name does not end in .zip"`
	Args       struct {
		Archives []flags.Filename `positional-arg-name:"FILE.zip" description:"archives to list" required:"yes"`
	} `positional-args:"yes"`

	stdout *os.File
	stderr io.Writer
}

func newCommand(stdout *os.File, stderr io.Writer) *Command {
	return &Command{stdout: stdout, stderr: stderr}
}

// settings is the merge of config file and command line
type settings struct {
	format     string
	human      bool
	terminator byte
	sorted     bool
	find       string
	requireExt bool
	opts       zipcdir.ParseOptions
}

func (c *Command) resolve() (*settings, error) {
	configPath := c.Config
	if configPath == "" {
		configPath = zipcdir.DefaultConfigPath()
	}

	cfg, err := zipcdir.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config error: %w", err)
	}
	if err := cfg.ApplyOverrides(c.Set); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	all := cfg.GetAllConfig()

	level := all.Verbose.Level
	if len(c.Verbose) > 0 {
		level = len(c.Verbose)
	}
	zipcdir.SetVerboseLevel(level)

	debug := all.Verbose.Debug
	if c.Debug != "" {
		debug = c.Debug
	}
	zipcdir.InitDebugFlags(debug)
	zipcdir.LogDebugFlags()

	opts, err := cfg.ParseOptions()
	if err != nil {
		return nil, err
	}
	if c.NoMmap {
		opts.NoMmap = true
	}

	s := &settings{
		format:     all.Output.Format,
		human:      all.Output.Human || c.Human,
		terminator: '\n',
		sorted:     c.Sorted,
		find:       c.Find,
		requireExt: all.Input.RequireZipExtension && !c.NoExtCheck,
		opts:       opts,
	}
	if c.Format != "" {
		s.format = strings.ToLower(c.Format)
	}
	if c.Null {
		s.terminator = 0
	}
	return s, nil
}

// Run lists every archive, carrying on past failures. It fails if any
// archive could not be listed or a signal cut the run short. args are the
// leftovers from flag parsing.
func (c *Command) Run(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	s, err := c.resolve()
	if err != nil {
		return err
	}

	ctx, stop := setupSignalContext(context.Background())
	defer stop()

	return c.run(ctx, s)
}

func (c *Command) run(ctx context.Context, s *settings) error {
	n := len(c.Args.Archives)
	failed := 0
	for i, archive := range c.Args.Archives {
		if err := ctx.Err(); err != nil {
			zipcdir.VerboseLog(1, "interrupted after %d/%d archives", i, n)
			return fmt.Errorf("interrupted: %w", err)
		}

		if err := c.listArchive(string(archive), s, n > 1); err != nil {
			fmt.Fprintf(c.stderr, "zipls: %v\n", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d archives failed", failed, n)
	}
	return nil
}

var errNotZip = errors.New("not a .zip file (use --no-ext-check to list it anyway)")

func (c *Command) listArchive(path string, s *settings, header bool) error {
	if s.requireExt && !zipcdir.HasZipExtension(path) {
		return fmt.Errorf("%s: %w", path, errNotZip)
	}

	dir, err := zipcdir.OpenDirectory(path, s.opts)
	if err != nil {
		return err
	}
	if dir.EmptyFile {
		zipcdir.VerboseLog(1, "%s: zero-length file, nothing to list", path)
	}

	if s.sorted || s.find != "" {
		index := zipcdir.NewNameIndex(dir)
		if dups := index.Duplicates(); len(dups) > 0 {
			zipcdir.VerboseLog(1, "%s: %d duplicate entry names", path, len(dups))
		}

		switch {
		case s.find != "":
			i, ok := index.FindIndex(s.find)
			if !ok {
				return fmt.Errorf("%s: no entry named %q", path, s.find)
			}
			dir = dir.Select([]int{i})
		case s.sorted:
			dir = dir.Select(index.SortedIndices())
		}
	}

	if header && s.format != zipcdir.FormatJSON {
		fmt.Fprintf(c.stdout, "%s:\n", path)
	}

	switch s.format {
	case zipcdir.FormatLong:
		return zipcdir.WriteLong(c.stdout, dir, s.human)
	case zipcdir.FormatJSON:
		return zipcdir.WriteJSON(c.stdout, dir)
	default:
		return zipcdir.WriteNames(c.stdout, dir, s.terminator)
	}
}
