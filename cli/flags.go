package cli

import "github.com/mobile-next/fingers/config"

var (
	verbose    bool
	configPath string

	// loaded by the root command before any subcommand runs
	cfg = config.Default()

	// for replay command
	replayFormat  string
	replayArities []string
	replayRemote  string

	// for replay and server commands
	token string
)
