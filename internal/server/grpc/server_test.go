package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/auth"
	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
	"github.com/dmitrijs2005/vaultkeeper/internal/logging"
)

func nopLogger() logging.Logger {
	return logging.Discard()
}

func newTestServer(vs VaultOperations, ls LedgerOperations) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", nopLogger(), vs, ls, auth.NewVerifier(time.Minute), identity.Generate().Public)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	s := newTestServer(nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not stop after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	s := newTestServer(nil, nil)
	s.address = "127.0.0.1:99999"

	if err := s.Run(context.Background()); err == nil {
		t.Fatal("expected listen error")
	}
}
