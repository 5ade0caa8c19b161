package grpc

import (
	"errors"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorCodes = []struct {
	err  error
	code codes.Code
}{
	{common.ErrInsufficientFunds, codes.FailedPrecondition},
	{common.ErrAccountFrozen, codes.FailedPrecondition},
	{common.ErrMintMismatch, codes.InvalidArgument},
	{common.ErrInvalidToken, codes.Unauthenticated},
	{common.ErrReplay, codes.Unauthenticated},
	{common.ErrorUnauthorized, codes.PermissionDenied},
	{common.ErrInvalidAmount, codes.InvalidArgument},
	{common.ErrBindingMismatch, codes.InvalidArgument},
	{common.ErrInvalidIdentity, codes.InvalidArgument},
	{common.ErrAlreadyExists, codes.AlreadyExists},
	{common.ErrorNotFound, codes.NotFound},
}

// toStatus maps service errors onto gRPC status codes. Unknown errors are
// reported as Internal without their text.
func (s *GRPCServer) toStatus(err error) error {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return status.Error(e.code, err.Error())
		}
	}
	return status.Error(codes.Internal, "internal error")
}
