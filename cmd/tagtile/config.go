package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/tagtile/internal/config"
)

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tagtile config validate [--path PATH]")
	fmt.Fprintln(w, "  tagtile config print [--path PATH] [--effective|--defaults]")
	fmt.Fprintln(w, "  tagtile config explain [--path PATH] <yaml.path>")
	fmt.Fprintln(w, "  tagtile config init [--path PATH] [--force]")
}

func runConfig(args []string) int {
	if len(args) == 0 {
		printConfigUsage(os.Stderr)
		return 2
	}

	fs := flag.NewFlagSet("config "+args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/tagtile/config.yaml)")

	var run func() int
	switch args[0] {
	case "validate":
		run = func() int { return configValidate(*path) }
	case "print":
		defaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		effective := fs.Bool("effective", false, "Print effective config (default)")
		run = func() int {
			if *defaults && *effective {
				fmt.Fprintln(os.Stderr, "--defaults and --effective are mutually exclusive")
				return 2
			}
			return configPrint(*path, *defaults)
		}
	case "explain":
		run = func() int {
			if fs.NArg() != 1 {
				fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
				return 2
			}
			return configExplain(*path, fs.Arg(0))
		}
	case "init":
		force := fs.Bool("force", false, "Overwrite an existing file")
		run = func() int { return configInit(*path, *force) }
	case "help", "-h", "--help":
		printConfigUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n\n", args[0])
		printConfigUsage(os.Stderr)
		return 2
	}

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	return run()
}

func configValidate(path string) int {
	res, err := loadConfig(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("config: ok (%d tags, %d layouts, %d file(s))\n",
		len(res.Config.Tags), len(res.Config.Layouts), len(res.Files))
	return 0
}

func configPrint(path string, defaults bool) int {
	cfg := config.DefaultConfig()
	if !defaults {
		res, err := loadConfig(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		cfg = res.Config
	}
	return printYAML(cfg)
}

func configExplain(path, query string) int {
	res, err := loadConfig(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	value, src, err := config.Explain(res, query)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("path: %s\n", query)
	fmt.Printf("source: %s\n", formatSource(src))
	fmt.Println("value:")
	return printYAML(value)
}

// configInit writes the built-in defaults so they can be edited.
func configInit(path string, force bool) int {
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		path = p
	}
	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(os.Stderr, "%s already exists (use --force to overwrite)\n", path)
		return 1
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := config.DefaultConfig().SaveTo(path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("wrote %s\n", path)
	return 0
}

func printYAML(v any) int {
	out, err := yaml.Marshal(v)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	os.Stdout.Write(out)
	return 0
}

func formatSource(src config.Source) string {
	switch {
	case src.Kind == config.SourceFile && src.File == "":
		return "file"
	case src.Kind == config.SourceFile && src.Line > 0:
		return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
	case src.Kind == config.SourceFile:
		return "file:" + src.File
	case src.Name != "":
		return string(src.Kind) + ":" + src.Name
	default:
		return string(src.Kind)
	}
}
