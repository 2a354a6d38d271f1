package grpc

import (
	"context"

	pb "github.com/quotevote/authkeeper/internal/proto"
	"github.com/quotevote/authkeeper/internal/server/auth"
	"github.com/quotevote/authkeeper/internal/server/models"
	"github.com/quotevote/authkeeper/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) CreateGuestUser(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	acc, pair, err := s.auth.CreateGuestUser(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return sessionResponse(acc, pair)
}

func (s *GRPCServer) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	acc, err := s.auth.Register(ctx, services.RegisterInput{
		Name:     pb.GetString(req, pb.FieldName),
		Email:    pb.GetString(req, pb.FieldEmail),
		Username: pb.GetString(req, pb.FieldUsername),
		Password: pb.GetString(req, pb.FieldPassword),
	})
	if err != nil {
		return nil, toStatus(err)
	}

	v, err := pb.ToValue(acc)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{pb.FieldAccount: v}}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	acc, pair, err := s.auth.Login(ctx, loginInput(req))
	if err != nil {
		return nil, toStatus(err)
	}
	return sessionResponse(acc, pair)
}

func (s *GRPCServer) Authenticate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	acc, pair, err := s.auth.Authenticate(ctx, loginInput(req))
	if err != nil {
		return nil, toStatus(err)
	}
	return sessionResponse(acc, pair)
}

func (s *GRPCServer) Refresh(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	pair, err := s.auth.Refresh(ctx, pb.GetString(req, pb.FieldRefreshToken))
	if err != nil {
		return nil, toStatus(err)
	}
	return pb.NewStrings(map[string]string{
		pb.FieldAccessToken:  pair.AccessToken,
		pb.FieldRefreshToken: pair.RefreshToken,
	}), nil
}

// VerifyToken returns the claims the interceptor already verified.
func (s *GRPCServer) VerifyToken(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	v, err := pb.ToValue(claims)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{pb.FieldClaims: v}}, nil
}

func loginInput(req *structpb.Struct) services.LoginInput {
	return services.LoginInput{
		Identifier: pb.GetString(req, pb.FieldIdentifier),
		Password:   pb.GetString(req, pb.FieldPassword),
	}
}

func sessionResponse(acc *models.Account, pair *auth.TokenPair) (*structpb.Struct, error) {
	v, err := pb.ToValue(acc)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		pb.FieldAccount:      v,
		pb.FieldAccessToken:  structpb.NewStringValue(pair.AccessToken),
		pb.FieldRefreshToken: structpb.NewStringValue(pair.RefreshToken),
	}}, nil
}
