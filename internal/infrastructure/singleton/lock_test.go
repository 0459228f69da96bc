package singleton

import (
	"errors"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	listener.Close()
	return addr
}

func TestAcquire_PortAvailable(t *testing.T) {
	listener, err := Acquire(freeAddr(t))
	require.NoError(t, err)
	require.NotNil(t, listener)
	defer listener.Close()
}

func TestAcquire_PortInUse_HealthyInstance(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := &http.Server{Handler: mux}
	go func() { _ = srv.Serve(listener) }()
	defer srv.Close()

	result, err := Acquire(listener.Addr().String())
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrAlreadyRunning))
}

func TestAcquire_PortInUse_UnhealthyInstance(t *testing.T) {
	// 占用端口但不提供健康检查
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	result, err := Acquire(listener.Addr().String())
	assert.Nil(t, result)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrAlreadyRunning))
	assert.Contains(t, err.Error(), "health check failed")
}

func TestIsAddrInUse(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	_, err = net.Listen("tcp", listener.Addr().String())
	require.Error(t, err)
	assert.True(t, isAddrInUse(err))

	assert.False(t, isAddrInUse(nil))
	assert.False(t, isAddrInUse(errors.New("permission denied")))
}

func TestHealthURL(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":3000", "http://localhost:3000/health"},
		{"0.0.0.0:3000", "http://localhost:3000/health"},
		{"127.0.0.1:8080", "http://127.0.0.1:8080/health"},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, healthURL(tt.addr))
		})
	}
}
