package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/quotevote/authkeeper/internal/logging"
	pb "github.com/quotevote/authkeeper/internal/proto"
	"github.com/quotevote/authkeeper/internal/server/auth"
	"github.com/quotevote/authkeeper/internal/server/config"
	"github.com/quotevote/authkeeper/internal/server/password"
	"github.com/quotevote/authkeeper/internal/server/repositories/users"
	"github.com/quotevote/authkeeper/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

var testSecret = []byte("grpc-test-secret")

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

type env struct {
	client pb.AuthServiceClient
	clock  *clock
}

func newEnv(t *testing.T) *env {
	t.Helper()
	clk := &clock{now: time.Now()}

	hasher, err := password.NewBcrypt(bcrypt.MinCost)
	require.NoError(t, err)
	codec, err := auth.NewCodec(testSecret, auth.WithClock(clk.Now))
	require.NoError(t, err)
	verifier, err := auth.NewVerifier(testSecret, auth.WithClock(clk.Now))
	require.NoError(t, err)
	svc := services.NewAuthService(users.NewMemoryRepository(), hasher, codec, verifier,
		&config.Config{StoreTimeout: time.Second})

	srv := NewGRPCServer("bufconn", logging.Nop{}, svc)
	lis := bufconn.Listen(1 << 20)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufconn",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
	})
	return &env{client: pb.NewAuthServiceClient(conn), clock: clk}
}

func registerReq() *structpb.Struct {
	return pb.NewStrings(map[string]string{
		pb.FieldName:     "Test",
		pb.FieldEmail:    "t@example.com",
		pb.FieldUsername: "testuser",
		pb.FieldPassword: "password123",
	})
}

func loginReq(id, pw string) *structpb.Struct {
	return pb.NewStrings(map[string]string{pb.FieldIdentifier: id, pb.FieldPassword: pw})
}

func withBearer(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}

func TestRegisterLoginVerify(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	resp, err := e.client.Register(ctx, registerReq())
	require.NoError(t, err)
	acc := resp.GetFields()[pb.FieldAccount].GetStructValue().GetFields()
	assert.Equal(t, "testuser", acc["username"].GetStringValue())
	assert.NotContains(t, acc, "passwordHash")
	assert.NotContains(t, resp.GetFields(), pb.FieldAccessToken)

	login, err := e.client.Login(ctx, loginReq("testuser", "password123"))
	require.NoError(t, err)
	access := pb.GetString(login, pb.FieldAccessToken)
	require.NotEmpty(t, access)
	require.NotEmpty(t, pb.GetString(login, pb.FieldRefreshToken))

	verified, err := e.client.VerifyToken(withBearer(ctx, access), &structpb.Struct{})
	require.NoError(t, err)
	claims := verified.GetFields()[pb.FieldClaims].GetStructValue().GetFields()
	assert.Equal(t, "testuser", claims["username"].GetStringValue())
	assert.Equal(t, acc["id"].GetStringValue(), claims["sub"].GetStringValue())
}

func TestErrorCodes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.client.Register(ctx, &structpb.Struct{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = e.client.Register(ctx, registerReq())
	require.NoError(t, err)
	_, err = e.client.Register(ctx, registerReq())
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = e.client.Login(ctx, loginReq("testuser", "wrong-password"))
	wrong, _ := status.FromError(err)
	_, err = e.client.Authenticate(ctx, loginReq("nobody", "password123"))
	unknown, _ := status.FromError(err)
	assert.Equal(t, codes.Unauthenticated, wrong.Code())
	assert.Equal(t, wrong.Code(), unknown.Code())
	assert.Equal(t, wrong.Message(), unknown.Message())

	_, err = e.client.Refresh(ctx, &structpb.Struct{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = e.client.Refresh(ctx, pb.NewStrings(map[string]string{pb.FieldRefreshToken: "garbage"}))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestGuestAndRefresh(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	guest, err := e.client.CreateGuestUser(ctx, nil)
	require.NoError(t, err)
	acc := guest.GetFields()[pb.FieldAccount].GetStructValue().GetFields()
	assert.True(t, acc["isGuest"].GetBoolValue())
	assert.Equal(t, "guest", acc["displayName"].GetStringValue())

	refresh := pb.GetString(guest, pb.FieldRefreshToken)
	e.clock.now = e.clock.now.Add(time.Hour)

	_, err = e.client.VerifyToken(withBearer(ctx, pb.GetString(guest, pb.FieldAccessToken)), &structpb.Struct{})
	st, _ := status.FromError(err)
	assert.Equal(t, codes.Unauthenticated, st.Code())
	assert.Equal(t, "token expired", st.Message())

	out, err := e.client.Refresh(ctx, pb.NewStrings(map[string]string{pb.FieldRefreshToken: refresh}))
	require.NoError(t, err)
	assert.Equal(t, refresh, pb.GetString(out, pb.FieldRefreshToken))

	_, err = e.client.VerifyToken(withBearer(ctx, pb.GetString(out, pb.FieldAccessToken)), &structpb.Struct{})
	assert.NoError(t, err)
}

func TestVerifyToken_Rejections(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.client.VerifyToken(ctx, &structpb.Struct{})
	st, _ := status.FromError(err)
	assert.Equal(t, codes.Unauthenticated, st.Code())
	assert.Equal(t, "missing token", st.Message())

	guest, err := e.client.CreateGuestUser(ctx, nil)
	require.NoError(t, err)
	_, err = e.client.VerifyToken(withBearer(ctx, pb.GetString(guest, pb.FieldRefreshToken)), &structpb.Struct{})
	st, _ = status.FromError(err)
	assert.Equal(t, codes.Unauthenticated, st.Code())
	assert.Equal(t, "wrong token type", st.Message())
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", logging.Nop{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", logging.Nop{}, nil)
	assert.Error(t, srv.Run(context.Background()))
}
