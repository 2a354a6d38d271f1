package authclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/quotevote/authkeeper/internal/common"
	pb "github.com/quotevote/authkeeper/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

// GRPCClient talks to the auth server and remembers the last token pair it
// was given. Calls that need an access token refresh it once on expiry.
type GRPCClient struct {
	conn    *grpc.ClientConn
	client  pb.AuthServiceClient
	timeout time.Duration

	mu     sync.Mutex
	tokens Tokens
}

// New dials endpoint without TLS.
func New(endpoint string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{timeout: timeout}
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = pb.NewAuthServiceClient(conn)
	return c, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

// Tokens returns the current token pair.
func (c *GRPCClient) Tokens() Tokens {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens
}

// SetTokens replaces the current token pair.
func (c *GRPCClient) SetTokens(t Tokens) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = t
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	md.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the access token to VerifyToken calls and,
// when the server reports it expired, refreshes once and retries.
func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if method != pb.AuthService_VerifyToken_FullMethodName {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	tokens := c.Tokens()
	err := invoker(withAccessToken(ctx, tokens.AccessToken), method, req, reply, cc, opts...)
	if err == nil || !isExpired(err) || tokens.RefreshToken == "" {
		return err
	}

	fresh, rerr := c.refresh(ctx, tokens.RefreshToken)
	if rerr != nil {
		return err
	}
	c.SetTokens(*fresh)
	return invoker(withAccessToken(ctx, fresh.AccessToken), method, req, reply, cc, opts...)
}

func (c *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// CreateGuest creates a guest account and keeps its tokens.
func (c *GRPCClient) CreateGuest(ctx context.Context) (*Session, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.CreateGuestUser(ctx, &structpb.Struct{})
	if err != nil {
		return nil, mapError(err)
	}
	return c.session(resp)
}

func (c *GRPCClient) Register(ctx context.Context, r RegisterRequest) (*Account, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Register(ctx, pb.NewStrings(map[string]string{
		pb.FieldName:     r.Name,
		pb.FieldEmail:    r.Email,
		pb.FieldUsername: r.Username,
		pb.FieldPassword: r.Password,
	}))
	if err != nil {
		return nil, mapError(err)
	}

	var acc Account
	if err := pb.FromValue(resp.GetFields()[pb.FieldAccount], &acc); err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}
	return &acc, nil
}

// Login checks a credential and keeps the returned tokens.
func (c *GRPCClient) Login(ctx context.Context, identifier, password string) (*Session, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Login(ctx, pb.NewStrings(map[string]string{
		pb.FieldIdentifier: identifier,
		pb.FieldPassword:   password,
	}))
	if err != nil {
		return nil, mapError(err)
	}
	return c.session(resp)
}

// Refresh exchanges refreshToken for a new pair and keeps it.
func (c *GRPCClient) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	t, err := c.refresh(ctx, refreshToken)
	if err != nil {
		return nil, mapError(err)
	}
	c.SetTokens(*t)
	return t, nil
}

func (c *GRPCClient) refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Refresh(ctx, pb.NewStrings(map[string]string{pb.FieldRefreshToken: refreshToken}))
	if err != nil {
		return nil, err
	}
	return &Tokens{
		AccessToken:  pb.GetString(resp, pb.FieldAccessToken),
		RefreshToken: pb.GetString(resp, pb.FieldRefreshToken),
	}, nil
}

// Verify asks the server to verify the current access token.
func (c *GRPCClient) Verify(ctx context.Context) (*TokenInfo, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.VerifyToken(ctx, &structpb.Struct{})
	if err != nil {
		return nil, mapError(err)
	}

	var info TokenInfo
	if err := pb.FromValue(resp.GetFields()[pb.FieldClaims], &info); err != nil {
		return nil, fmt.Errorf("decode claims: %w", err)
	}
	return &info, nil
}

func (c *GRPCClient) session(resp *structpb.Struct) (*Session, error) {
	var acc Account
	if err := pb.FromValue(resp.GetFields()[pb.FieldAccount], &acc); err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}
	s := &Session{
		Account: &acc,
		Tokens: Tokens{
			AccessToken:  pb.GetString(resp, pb.FieldAccessToken),
			RefreshToken: pb.GetString(resp, pb.FieldRefreshToken),
		},
	}
	c.SetTokens(s.Tokens)
	return s, nil
}
