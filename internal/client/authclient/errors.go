package authclient

import (
	"errors"
	"fmt"

	"github.com/quotevote/authkeeper/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var ErrUnavailable = errors.New("server unavailable")

// sentinelByMessage restores the server-side error identity of an
// Unauthenticated status.
var sentinelByMessage = map[string]error{
	common.ErrInvalidCredentials.Error():  common.ErrInvalidCredentials,
	common.ErrAccountDisabled.Error():     common.ErrAccountDisabled,
	common.ErrInvalidRefreshToken.Error(): common.ErrInvalidRefreshToken,
	common.ErrTokenExpired.Error():        common.ErrTokenExpired,
	common.ErrWrongTokenType.Error():      common.ErrWrongTokenType,
	common.ErrInvalidToken.Error():        common.ErrInvalidToken,
}

// mapError turns a gRPC status into an error matching the common sentinels,
// keeping the server's message.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrValidation, st.Message())
	case codes.AlreadyExists:
		return common.ErrDuplicateAccount
	case codes.Unauthenticated, codes.PermissionDenied:
		if s, ok := sentinelByMessage[st.Message()]; ok {
			return s
		}
		return fmt.Errorf("%w: %s", common.ErrInvalidToken, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func isExpired(err error) bool {
	st, ok := status.FromError(err)
	return ok && st.Code() == codes.Unauthenticated && st.Message() == common.ErrTokenExpired.Error()
}
