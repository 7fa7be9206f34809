package cli

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/quaff/internal/server"
	"github.com/matzehuels/quaff/pkg/script"
)

// serveCommand creates the serve command, which exposes a directory over
// HTTP until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags loaderFlags
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Serve a directory over HTTP",
		Long: `Serve a directory as JSON over HTTP. The directory is loaded again on every
request, so changes on disk are visible immediately.

Routes:
  GET /healthz   health and build info
  GET /data      the whole document
  GET /data/...  the value at a key path, e.g. /data/animals/mammals
  GET /keys      key path, file and format of every file`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.config.Serve.Addr
			}

			loader := c.newLoader(cmd, &flags)
			srv := server.New(server.Config{
				Addr:   addr,
				Root:   args[0],
				Loader: loader,
				Logger: loggerFromContext(cmd.Context()),
			})
			if slices.Contains(loader.Extensions(), script.Extension) {
				printWarning("Go scripts are executed on every request")
			}
			printInfo("Serving %s on %s", StyleHighlight.Render(args[0]), StyleLink.Render("http://"+displayAddr(addr)))
			return srv.ListenAndServe(cmd.Context())
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	return cmd
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
