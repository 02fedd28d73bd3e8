package utils

import (
	"fmt"
	"net"
)

// CheckListenAddr reports an error when addr cannot be bound right now.
func CheckListenAddr(addr string) error {
	Verbose("Checking if %s is available", addr)
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", addr, err)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		Verbose("error: %v", err)
		return fmt.Errorf("address %s is not available: %w", addr, err)
	}

	return listener.Close()
}
