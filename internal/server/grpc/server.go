package grpc

import (
	"context"
	"errors"
	"net"

	"github.com/quotevote/authkeeper/internal/logging"
	pb "github.com/quotevote/authkeeper/internal/proto"
	"github.com/quotevote/authkeeper/internal/server/auth"
	"github.com/quotevote/authkeeper/internal/server/models"
	"github.com/quotevote/authkeeper/internal/server/services"
	"google.golang.org/grpc"
)

// AuthService is the business layer the gRPC handlers delegate to.
type AuthService interface {
	CreateGuestUser(ctx context.Context) (*models.Account, *auth.TokenPair, error)
	Register(ctx context.Context, in services.RegisterInput) (*models.Account, error)
	Login(ctx context.Context, in services.LoginInput) (*models.Account, *auth.TokenPair, error)
	Authenticate(ctx context.Context, in services.LoginInput) (*models.Account, *auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	VerifyToken(ctx context.Context, bearer string) (*auth.Claims, error)
}

type GRPCServer struct {
	address string
	auth    AuthService
	logger  logging.Logger
}

var _ pb.AuthServiceServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, svc AuthService) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		auth:    svc,
	}
}

// newServer builds a *grpc.Server with the interceptor chain and the auth
// service registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	pb.RegisterAuthServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}
