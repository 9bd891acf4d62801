package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ironsheep/text-islands-mcp/internal/config"
	"github.com/ironsheep/text-islands-mcp/internal/detection"
	"github.com/ironsheep/text-islands-mcp/internal/imaging"
	"github.com/ironsheep/text-islands-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Fprintf(stdout, "text-islands-mcp %s\n", Version)
			fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(stdout, "  Backend:    %s\n", detection.Backend)
			return 0
		case "--help", "-h", "help":
			printUsage(stdout)
			return 0
		case "binarize":
			return runBinarize(args[1:], stdout, stderr)
		}
	}

	fs := flag.NewFlagSet("text-islands-mcp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to a TOML configuration file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	setupLogging(cfg, stderr)

	log.Debug().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("commit", GitCommit).
		Msg("Text Islands MCP Server")

	srv, err := server.New(cfg, Version)
	if err != nil {
		log.Error().Err(err).Msg("failed to create server")
		return 1
	}
	if err := srv.Run(); err != nil {
		log.Error().Err(err).Msg("server error")
		return 1
	}
	return 0
}

// runBinarize runs the pipeline on one file, writes the mask and prints one
// island per line as "x y width height".
func runBinarize(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("binarize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to a TOML configuration file")
	debugPath := fs.String("debug", "", "Also write a debug overlay to this file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(stderr, "Usage: text-islands-mcp binarize [--config file] [--debug overlay.png] <input> <output.png>")
		return 2
	}
	in, out := fs.Arg(0), fs.Arg(1)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	setupLogging(cfg, stderr)

	opts := cfg.DetectionOptions()
	opts.DrawRects = *debugPath != ""

	d, err := detection.New(opts)
	if err != nil {
		log.Error().Err(err).Msg("invalid detection options")
		return 1
	}
	buf, err := imaging.NewImageCache().LoadBuffer(in)
	if err != nil {
		log.Error().Err(err).Str("path", in).Msg("failed to load input")
		return 1
	}

	start := time.Now()
	res, err := d.Run(buf)
	if err != nil {
		log.Error().Err(err).Msg("detection failed")
		return 1
	}
	log.Info().
		Str("input", in).
		Int("islands", len(res.Islands)).
		Int("candidates", len(res.Candidates)).
		Dur("elapsed", time.Since(start)).
		Msg("binarized")

	if err := imaging.SaveImage(out, res.Mask); err != nil {
		log.Error().Err(err).Msg("failed to write mask")
		return 1
	}
	if res.Debug != nil {
		if err := imaging.SaveImage(*debugPath, res.Debug); err != nil {
			log.Error().Err(err).Msg("failed to write debug overlay")
			return 1
		}
	}

	for _, r := range res.Islands {
		fmt.Fprintf(stdout, "%d %d %d %d\n", r.X, r.Y, r.Width, r.Height)
	}
	return 0
}

// loadConfig reads the optional file, then applies environment overrides.
func loadConfig(path string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging sends the global logger to w (stdout carries the protocol)
// in console format at the configured level.
func setupLogging(cfg *config.Config, w io.Writer) {
	level, err := cfg.Level()
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Logger()
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "text-islands-mcp - MCP server for text detection and local binarization")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  text-islands-mcp [--config file.toml]          Run the MCP server on stdin/stdout")
	fmt.Fprintln(w, "  text-islands-mcp binarize <input> <output.png>  Binarize one image and print its islands")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --config file    TOML configuration file")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  TEXT_ISLANDS_LOG_LEVEL=debug     Enable debug logging")
	fmt.Fprintln(w, "  TEXT_ISLANDS_CANNY_LOW=40        Override any detection setting, e.g.")
	fmt.Fprintln(w, "  TEXT_ISLANDS_ISLAND_PADDING=8    canny_low or island_padding")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "This server communicates via MCP protocol over stdin/stdout.")
	fmt.Fprintln(w, "Configure it in your MCP client (e.g., Claude Desktop).")
}
