// go-ecsdemo web server
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-while/go-ecsdemo/internal/config"
	"github.com/go-while/go-ecsdemo/internal/logging"
	"github.com/spf13/cobra"
)

var appVersion = "-unset-"

func newRootCmd() *cobra.Command {
	var (
		configPath  string
		showVersion bool
	)

	cmd := &cobra.Command{
		Use:           "go-ecsdemo",
		Short:         "Serves the demo home and about pages",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), config.AppVersion)
				return nil
			}
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "settings file (default: ./settings.yaml if present)")
	flags.BoolVar(&showVersion, "version", false, "print version and exit")
	flags.String("addr", config.DefaultListenAddr, "listen address")
	flags.Int("port", config.DefaultListenPort, "listen port")
	flags.Bool("ssl", false, "serve HTTPS (requires --cert and --key)")
	flags.String("cert", "", "SSL certificate file (/path/to/fullchain.pem)")
	flags.String("key", "", "SSL key file (/path/to/privkey.pem)")
	flags.Bool("debug", false, "gin debug mode")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "auto", "log format (text, json, auto)")
	flags.String("pprof", "", "start the cpu/mem profiler web ui on this address (e.g. :51111)")
	return cmd
}

func main() {
	config.AppVersion = appVersion

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		logging.GetLogger("main").Fatalf("[WEB]: %v", err)
	}
} // end main
