package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chazu/dannycam/pkg/config"
	"github.com/chazu/dannycam/pkg/kernel"
	"github.com/chazu/dannycam/pkg/kernel/noroom"
	"github.com/chazu/dannycam/pkg/kernel/sdfx"
	"github.com/kpango/glg"
	"github.com/spf13/pflag"
)

const usage = `usage: dannycam [flags] <job.dcam | drawing.dxf>

Compiles the closed profiles of a job into a G-code program for a 3-axis mill.
Options are read from defaults, then --config, then the job's own settings,
then DANNYCAM_* environment variables, then flags.

`

// options are the flags that control the run itself rather than the job.
type options struct {
	configFile  string
	output      string
	noHelix     bool
	summaryYAML bool
	verbose     bool
}

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr, glg.Get())
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		glg.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer, log *glg.Glg) error {
	var opts options
	fs := pflag.NewFlagSet("dannycam", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.configFile, "config", "c", "", "config file (yaml, toml or json)")
	fs.StringVarP(&opts.output, "output", "o", "", "output program (default: input path with .ngc extension)")
	fs.BoolVar(&opts.noHelix, "no-helix", false, "never enter with a helix")
	fs.BoolVar(&opts.summaryYAML, "summary-yaml", false, "print the path summary as YAML on stdout")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "log state transitions and entry decisions")

	jobFlags := pflag.NewFlagSet("job", pflag.ContinueOnError)
	config.RegisterFlags(jobFlags)
	fs.AddFlagSet(jobFlags)

	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected one input file, got %d", fs.NArg())
	}
	input := fs.Arg(0)

	if !opts.verbose {
		log.SetLevelMode(glg.DEBG, glg.NONE)
	}

	var k kernel.Kernel = sdfx.New()
	if opts.noHelix {
		k = noroom.New()
	}
	app := NewAppWithKernel(k, log)

	job, err := app.LoadJob(input)
	if err != nil {
		return err
	}

	loader := config.NewLoader()
	if opts.configFile != "" {
		if err := loader.ReadFile(opts.configFile); err != nil {
			return err
		}
	}
	if err := loader.MergeSettings(job.Settings); err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	if err := loader.BindFlags(jobFlags); err != nil {
		return err
	}
	cfg, err := loader.Config()
	if err != nil {
		return err
	}

	res, err := app.Compile(cfg, job.Toolpath)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	out := config.OutputPath(input, opts.output)
	if err := writeProgram(out, res); err != nil {
		return err
	}
	log.Infof("wrote %d lines to %s", res.Program.Len(), out)

	if opts.summaryYAML {
		y, err := res.Summary.YAML()
		if err != nil {
			return err
		}
		if _, err := stdout.Write(y); err != nil {
			return err
		}
	}
	return nil
}

func writeProgram(path string, res Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if _, err := res.Program.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write output: %w", err)
	}
	return f.Close()
}
