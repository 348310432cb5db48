package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/daemon"
	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "view":
		os.Exit(runView(os.Args[2:]))
	case "layout":
		os.Exit(runLayout(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "palette":
		os.Exit(runPalette(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tagtile <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Run the window manager (foreground)")
	fmt.Fprintln(w, "  status              Show screens and workspaces")
	fmt.Fprintln(w, "  view                Switch to a workspace by index or tag")
	fmt.Fprintln(w, "  palette             Pick a workspace or layout from a menu")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  layout list         List available layouts")
	fmt.Fprintln(w, "  layout set          Set the current workspace's layout")
	fmt.Fprintln(w, "  layout cycle        Step the current workspace to the next layout")
	fmt.Fprintln(w, "  layout default      Set default_layout in config")
	fmt.Fprintln(w, "  layout preview      Draw a layout in the terminal")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'tagtile <command> --help' for command-specific options.")
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// newFlagSet builds a subcommand flag set whose usage prints the synopsis,
// the about lines and any flags.
func newFlagSet(name, synopsis string, about ...string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: "+synopsis)
		if len(about) > 0 {
			fmt.Fprintln(os.Stderr)
			for _, line := range about {
				fmt.Fprintln(os.Stderr, line)
			}
		}
		hasFlags := false
		fs.VisitAll(func(*flag.Flag) { hasFlags = true })
		if hasFlags {
			fmt.Fprintln(os.Stderr)
			fmt.Fprintln(os.Stderr, "Flags:")
			fs.PrintDefaults()
		}
	}
	return fs
}

// parseArgs parses args and checks for exactly nargs positional arguments.
// When ok is false the command should exit with rc.
func parseArgs(fs *flag.FlagSet, args []string, nargs int) (rc int, ok bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	if fs.NArg() != nargs {
		fmt.Fprintf(os.Stderr, "%s: expected %d argument(s), got %d\n\n", fs.Name(), nargs, fs.NArg())
		fs.Usage()
		return 2, false
	}
	return 0, true
}

// report prints err and maps it to an exit code.
func report(err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintln(os.Stderr, err)
	return 1
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return report(enc.Encode(v))
}

func runDaemon(args []string) int {
	fs := newFlagSet("daemon", "tagtile daemon [--path PATH] [--display DISPLAY]",
		"Take over the X display and manage windows until interrupted.")
	path := fs.String("path", "", "Config file path (default: ~/.config/tagtile/config.yaml)")
	display := fs.String("display", "", "X display to manage (default: config display, then $DISPLAY)")
	if rc, ok := parseArgs(fs, args, 0); !ok {
		return rc
	}

	res, err := loadConfig(*path)
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	cfg := res.Config
	if *display != "" {
		cfg.Display = *display
	}

	level, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		log.Printf("Warning: %v; using info", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	log.Printf("Configuration loaded (tags: %d, default layout: %s, border: %dpx, gap: %dpx)",
		len(cfg.Tags), cfg.DefaultLayout, cfg.BorderWidth, cfg.GapSize)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := daemon.Run(ctx, cfg, logger); err != nil {
		log.Printf("Daemon failed: %v", err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := newFlagSet("status", "tagtile status [--json]", "Show daemon status via IPC.")
	jsonOut := fs.Bool("json", false, "Output status as JSON")
	if rc, ok := parseArgs(fs, args, 0); !ok {
		return rc
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		return report(err)
	}
	if *jsonOut {
		return printJSON(status)
	}
	fmt.Print(tui.RenderStatus(status, term.IsTerminal(int(os.Stdout.Fd()))))
	return 0
}

func runView(args []string) int {
	fs := newFlagSet("view", "tagtile view <index|tag>",
		"Make a workspace current. A number is a zero-based tag position;",
		"anything else is matched against tag names.")
	if rc, ok := parseArgs(fs, args, 1); !ok {
		return rc
	}

	client := ipc.NewClient()
	index, err := resolveViewTarget(client, fs.Arg(0))
	if err != nil {
		return report(err)
	}
	return report(client.View(index))
}

type statusGetter interface {
	GetStatus() (*ipc.StatusData, error)
}

func resolveViewTarget(client statusGetter, arg string) (int, error) {
	if index, err := strconv.Atoi(arg); err == nil {
		return index, nil
	}

	status, err := client.GetStatus()
	if err != nil {
		return 0, err
	}
	for _, ws := range status.Workspaces {
		if ws.Tag == arg {
			return ws.Index, nil
		}
	}
	return 0, fmt.Errorf("unknown tag %q", arg)
}
