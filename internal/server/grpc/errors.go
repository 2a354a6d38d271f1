package grpc

import (
	"errors"

	"github.com/quotevote/authkeeper/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps a service error onto a gRPC status. Messages are the public
// sentinel texts; store and internal details stay in the server log.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch common.Kind(err) {
	case common.KindValidation:
		var verr *common.ValidationError
		if errors.As(err, &verr) {
			return status.Error(codes.InvalidArgument, verr.Error())
		}
		return status.Error(codes.InvalidArgument, common.ErrValidation.Error())
	case common.KindDuplicateAccount:
		return status.Error(codes.AlreadyExists, common.ErrDuplicateAccount.Error())
	case common.KindInvalidCredentials:
		return status.Error(codes.Unauthenticated, common.ErrInvalidCredentials.Error())
	case common.KindAccountDisabled:
		return status.Error(codes.Unauthenticated, common.ErrAccountDisabled.Error())
	case common.KindInvalidRefreshToken:
		return status.Error(codes.Unauthenticated, common.ErrInvalidRefreshToken.Error())
	case common.KindTokenExpired:
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	case common.KindWrongTokenType:
		return status.Error(codes.Unauthenticated, common.ErrWrongTokenType.Error())
	case common.KindInvalidToken:
		return status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	case common.KindStore:
		return status.Error(codes.Unavailable, "account store unavailable")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
