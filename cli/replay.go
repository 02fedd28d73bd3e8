package cli

import (
	"fmt"

	"github.com/mobile-next/fingers/commands"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay FILE",
	Short: "Replay a recorded touch stream",
	Long: `Replays a recording through a fresh tracking session and prints every finger and hand event as JSON.
FILE is either JSON lines of touch events (touchstart, touchmove, touchend, touchcancel) or a JSON document of W3C pointer actions. Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		authToken := token
		if replayRemote != "" && authToken == "" {
			authToken = loadToken()
		}

		req := commands.ReplayRequest{
			Path:    args[0],
			Format:  replayFormat,
			Arities: replayArities,
			Remote:  replayRemote,
			Token:   authToken,
		}

		response := commands.ReplayCommand(req)
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVar(&replayFormat, "format", "", "input format: jsonl or actions (default: by file extension)")
	replayCmd.Flags().StringSliceVar(&replayArities, "arity", nil, "multi hand arities to report (one..five, default: all)")
	replayCmd.Flags().StringVar(&replayRemote, "remote", "", "replay through a running server at this address instead of in-process")
	replayCmd.Flags().StringVar(&token, "token", "", "server token (default: from keyring)")
}
