// objinfo is a CLI utility that loads Wavefront OBJ files through the same
// record conversion the shared library uses and reports what a C caller
// would receive.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Faultbox/objloader/internal/config"
	"github.com/Faultbox/objloader/internal/logger"
)

var errUsage = errors.New("usage")

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) < 1 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	err = run(os.Stdout, cfg, args[0], args[1:])
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			printUsage(os.Stderr)
		}
		os.Exit(1)
	}
}

func run(w io.Writer, cfg *config.Config, command string, args []string) error {
	switch command {
	case "info":
		return cmdInfo(w, cfg, args)
	case "models", "ls":
		return cmdModels(w, cfg, args)
	case "materials", "mtl":
		return cmdMaterials(w, cfg, args)
	case "dump":
		return cmdDump(w, args)
	case "init-config":
		return cmdInitConfig(w, cfg, args)
	case "help", "-h", "--help":
		printUsage(w)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %s", errUsage, command)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `objinfo - Wavefront OBJ loader utility

Usage:
  objinfo [--config file] [--debug] [--log-file file] [--format text|yaml] <command> [options]

Commands:
  info <file.obj>              Show model, material and vertex totals
  models [-n N] <file.obj>     List models as the loader returns them
  materials <file.obj>         List materials from the referenced libraries
  dump <file.obj>              Dump every record, arrays included, as YAML
  init-config [path]           Write the current configuration to a file

Examples:
  objinfo info assets/cube.obj
  objinfo --format yaml models assets/scene.obj
  objinfo init-config ./objloader.yaml`)
}

func cmdInitConfig(w io.Writer, cfg *config.Config, args []string) error {
	path := filepath.Join(config.ConfigDir(), "config.yaml")
	if len(args) > 0 {
		path = args[0]
	}
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}
