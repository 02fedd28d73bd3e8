package utils

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckListenAddr_Available(t *testing.T) {
	assert.NoError(t, CheckListenAddr("127.0.0.1:0"))
}

func TestCheckListenAddr_InUse(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	err = CheckListenAddr(listener.Addr().String())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "is not available")
}

func TestCheckListenAddr_Invalid(t *testing.T) {
	tests := []struct {
		name string
		addr string
	}{
		{"missing port", "localhost"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckListenAddr(tt.addr)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "invalid listen address")
		})
	}
}
