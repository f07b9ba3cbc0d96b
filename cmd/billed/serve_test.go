package main

import (
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/billed/internal/config"
)

func TestLoopbackURL(t *testing.T) {
	tests := []struct {
		addr net.Addr
		want string
	}{
		{&net.TCPAddr{IP: net.IPv4zero, Port: 8080}, "http://127.0.0.1:8080"},
		{&net.TCPAddr{IP: net.IPv6unspecified, Port: 9000}, "http://127.0.0.1:9000"},
		{&net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 3456}, "http://127.0.0.1:3456"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, loopbackURL(tt.addr))
	}
}

func TestOpenReceiptsLocal(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ReceiptsDir = filepath.Join(t.TempDir(), "receipts")

	files, handler, err := openReceipts(t.Context(), cfg)
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.NotNil(t, handler)
}
