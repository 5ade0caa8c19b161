package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/auth"
	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// signatureInterceptor verifies every request proof attached to a signed
// method and hands the signer set to the handler through the context.
// One bad proof fails the whole call.
func (s *GRPCServer) signatureInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if !rpc.SignedMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var tokens []string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		tokens = md.Get(common.SignatureHeaderName)
	}
	if len(tokens) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing signature")
	}

	signers := make(auth.Signers, 0, len(tokens))
	for _, t := range tokens {
		p, err := s.verifier.Verify(t, info.FullMethod, req)
		if err != nil {
			s.logger.Warn(ctx, "rejected signature", "method", info.FullMethod, "error", err)
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		signers = append(signers, *p)
	}

	return handler(auth.WithSigners(ctx, signers), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug(ctx, "call", "method", info.FullMethod, "code", status.Code(err).String(), "duration", time.Since(start))
	return resp, err
}
