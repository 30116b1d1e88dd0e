// Copyright (c) 2021-2026 Rustam Gilyazov and Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Command hubmcp starts an MCP server that exposes HubSpot CRM operations
// (contacts, companies, deals) as tools for AI agents.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rusq/osenv/v2"

	"github.com/rusq/hubmcp/internal/hubspot"
	"github.com/rusq/hubmcp/internal/mcp"
)

var build = "dev"

// secrets defines the names of the supported secret files that we load our
// secrets from.  Inexperienced windows users might have bad experience trying
// to create .env file with the notepad as it will battle for having the
// "txt" extension.  Let it have it.
var secrets = []string{".env", ".env.txt", "secrets.txt"}

// params is the command line parameters.
type params struct {
	transport  string
	listenAddr string

	baseURL string
	timeout time.Duration

	printVersion bool
	verbose      bool
}

func main() {
	loadSecrets(secrets)

	p, err := parseCmdLine(os.Args[1:])
	if err != nil {
		slog.Error("invalid parameters", "error", err)
		os.Exit(1)
	}
	if p.printVersion {
		fmt.Println(build)
		return
	}
	initLog(p.verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, p); err != nil {
		slog.Error("run", "error", err)
		os.Exit(1)
	}
}

// run creates the HubSpot client and serves MCP on the selected transport
// until the context is cancelled.
func run(ctx context.Context, p params) error {
	cfg, err := hubspot.ConfigFromEnv()
	if err != nil {
		return err
	}
	if p.baseURL != "" {
		cfg.BaseURL = p.baseURL
	}
	if p.timeout > 0 {
		cfg.Timeout = p.timeout
	}

	client, err := hubspot.New(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	srv := mcp.New(
		mcp.WithClient(client),
		mcp.WithLogger(slog.Default()),
	)

	switch mcp.Transport(p.transport) {
	case mcp.TransportStdio:
		return srv.ServeStdio(ctx)
	case mcp.TransportHTTP:
		return srv.ServeHTTP(ctx, p.listenAddr)
	default:
		return fmt.Errorf("unknown transport: %q", p.transport)
	}
}

// loadSecrets load secrets from the files in secrets slice.
func loadSecrets(files []string) {
	for _, f := range files {
		godotenv.Load(f)
	}
}

// initLog initialises the default logger.  Logs go to stderr: on the stdio
// transport stdout belongs to the MCP protocol.
func initLog(verbose bool) {
	lvl := slog.LevelInfo
	if verbose {
		lvl = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// parseCmdLine parses the command line arguments.
func parseCmdLine(args []string) (params, error) {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			flag.CommandLine.Output(),
			"Hubmcp, %s\n"+
				"Hubmcp starts a Model Context Protocol server for HubSpot CRM,\n"+
				"exposing contacts, companies and deals operations as tools.\n\n"+
				"Authentication is taken from the %s or %s environment variable\n"+
				"(or a .env file in the current directory).\n\n"+
				"Usage:  %s [flags]\n\n",
			build, hubspot.EnvAccessToken, hubspot.EnvAPIKey, filepath.Base(os.Args[0]))
		fs.PrintDefaults()
	}

	var p params
	fs.StringVar(&p.transport, "transport", osenv.Value("MCP_TRANSPORT", string(mcp.TransportStdio)), "MCP transport: \"stdio\" or \"http\"")
	fs.StringVar(&p.listenAddr, "listen", osenv.Value("MCP_LISTEN", "127.0.0.1:8423"), "address to listen on when -transport=http")
	fs.StringVar(&p.baseURL, "base-url", "", "override the HubSpot API base `URL`")
	fs.DurationVar(&p.timeout, "timeout", 0, "override the per-request HTTP timeout")
	fs.BoolVar(&p.printVersion, "V", false, "print the version and exit")
	fs.BoolVar(&p.verbose, "v", false, "verbose (debug) logging")

	if err := fs.Parse(args); err != nil {
		return p, err
	}
	return p, nil
}
