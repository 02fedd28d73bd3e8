package cli

import (
	"fmt"

	"github.com/mobile-next/fingers/daemon"
	"github.com/mobile-next/fingers/server"
	"github.com/mobile-next/fingers/surface"
	"github.com/mobile-next/fingers/utils"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Server management commands",
	Long:  `Commands for managing the fingers server.`,
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the fingers server",
	Long:  `Starts the fingers server, accepting touch frames over JSON-RPC on /rpc and /ws.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := server.Options{
			Addr:        cfg.Server.Listen,
			EnableCORS:  cfg.Server.CORS,
			MaxSessions: cfg.Server.MaxSessions,
		}

		// flags override the configuration file
		if cmd.Flags().Changed("listen") {
			opts.Addr, _ = cmd.Flags().GetString("listen")
		}
		if cmd.Flags().Changed("cors") {
			opts.EnableCORS, _ = cmd.Flags().GetBool("cors")
		}
		if cmd.Flags().Changed("max-sessions") {
			opts.MaxSessions, _ = cmd.Flags().GetInt("max-sessions")
		}

		addr, err := server.NormalizeListenAddr(opts.Addr)
		if err != nil {
			return err
		}

		// GetBool cannot fail for defined flags
		isDaemon, _ := cmd.Flags().GetBool("daemon")

		// fail in the foreground rather than inside a detached child
		if !daemon.IsChild() {
			if err := utils.CheckListenAddr(addr); err != nil {
				return err
			}
		}

		if isDaemon && !daemon.IsChild() {
			_, err := daemon.Daemonize()
			if err != nil {
				return fmt.Errorf("failed to start daemon: %w", err)
			}

			fmt.Printf("Server daemon spawned, attempting to listen on %s\n", opts.Addr)
			return nil
		}

		opts.Token = token
		if opts.Token == "" {
			opts.Token = loadToken()
		}

		if cfg.Surface.SuppressOverscroll {
			surface.EnableOverscrollSuppression()
		}

		return server.StartServer(opts)
	},
}

var serverKillCmd = &cobra.Command{
	Use:   "kill",
	Short: "Stop the daemonized fingers server",
	Long:  `Connects to the server and sends a shutdown command via JSON-RPC.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Server.Listen
		if cmd.Flags().Changed("listen") {
			addr, _ = cmd.Flags().GetString("listen")
		}

		authToken := token
		if authToken == "" {
			authToken = loadToken()
		}

		err := daemon.KillServer(addr, authToken)
		if err != nil {
			return err
		}

		fmt.Printf("Server shutdown command sent successfully\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// add server subcommands
	serverCmd.AddCommand(serverStartCmd)
	serverCmd.AddCommand(serverKillCmd)

	// server start flags
	serverStartCmd.Flags().String("listen", "", "Address to listen on (e.g., 'localhost:12000' or '0.0.0.0:13000')")
	serverStartCmd.Flags().Bool("cors", false, "Enable CORS support")
	serverStartCmd.Flags().Int("max-sessions", 0, "Maximum number of live sessions before the least recently used is closed")
	serverStartCmd.Flags().BoolP("daemon", "d", false, "Run server in daemon mode (background)")
	serverStartCmd.Flags().StringVar(&token, "token", "", "Require this bearer token (default: from keyring)")

	// server kill flags
	serverKillCmd.Flags().String("listen", "", "Address of server to kill (default: from configuration)")
	serverKillCmd.Flags().StringVar(&token, "token", "", "Server token (default: from keyring)")
}
