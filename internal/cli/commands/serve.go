package commands

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/gridlens-labs/gridlens/internal/ui"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Dir       string
	Addr      string
	Watch     bool
	NoBrowser bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve built figures over HTTP",
		Long: `Start a local web server over the figure directory.

The server provides:
- An index of built figures
- A viewer page per figure with keyboard navigation
- Live reload of open pages when figures are rebuilt (--watch)`,
		Example: `  # Serve the default output directory
  gridlens serve

  # Reload open pages whenever a figure command rewrites its output
  gridlens serve --dir out --watch

  # Custom listen address, no browser
  gridlens serve --addr 127.0.0.1:9000 --no-browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", "", "figure directory to serve (default out-dir)")
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default: 127.0.0.1:8765)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "reload open pages when figures change")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg

	// CLI flags override config file
	dir := cfg.OutDir
	if opts.Dir != "" {
		dir = opts.Dir
	}
	addr := cfg.Serve.Addr
	if opts.Addr != "" {
		addr = opts.Addr
	}
	watch := cfg.Serve.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("figure directory does not exist: %s", dir)
	}

	server, err := ui.NewServer(ui.Config{
		FiguresDir: dir,
		Addr:       addr,
		Watch:      watch,
		Logger:     cmdCtx.Logger,
	})
	if err != nil {
		return err
	}

	if !opts.NoBrowser {
		go openBrowser("http://" + addr)
	}

	cmdCtx.Renderer.Printf("Serving figures from %s on http://%s\n", dir, addr)
	cmdCtx.Renderer.Println("Press Ctrl+C to stop")

	return server.Serve(cmd.Context())
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
