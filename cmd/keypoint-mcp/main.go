package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/ironsheep/keypoint-tools-mcp/internal/server"
	"github.com/ironsheep/keypoint-tools-mcp/internal/surf"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("keypoint-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("keypoint-tools-mcp - MCP server for SURF keypoint extraction")
			fmt.Println()
			fmt.Println("Usage: keypoint-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  KEYPOINT_MCP_LOG_LEVEL=debug    Enable debug logging")
			fmt.Println("  KEYPOINT_MCP_THREADS=N          Descriptor threads (-1 = every CPU)")
			fmt.Println("  KEYPOINT_MCP_MAX_POINTS=N       Default keypoint cap (0 = none)")
			fmt.Println("  KEYPOINT_MCP_MAX_HANDLES=N      Cached detector handles (0 = unbounded)")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	logLevel := os.Getenv("KEYPOINT_MCP_LOG_LEVEL")
	if logLevel == "debug" {
		log.Printf("Keypoint MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		surf.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if err := run(os.Getenv, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}

// run serves MCP requests from r until it is exhausted. The server is closed
// before run returns, so callers may exit on the returned error.
func run(getenv func(string) string, r io.Reader, w io.Writer) error {
	cfg, err := server.ConfigFromEnv(getenv)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	srv := server.NewWithConfig(cfg)
	defer srv.Close()
	if err := srv.Serve(r, w); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
