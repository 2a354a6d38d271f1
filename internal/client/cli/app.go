package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/quotevote/authkeeper/internal/client/authclient"
	"github.com/quotevote/authkeeper/internal/client/config"
)

// Client is the part of authclient.GRPCClient the commands use.
type Client interface {
	CreateGuest(ctx context.Context) (*authclient.Session, error)
	Register(ctx context.Context, r authclient.RegisterRequest) (*authclient.Account, error)
	Login(ctx context.Context, identifier, password string) (*authclient.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*authclient.Tokens, error)
	Verify(ctx context.Context) (*authclient.TokenInfo, error)
	SetTokens(t authclient.Tokens)
	Close() error
}

// Dialer opens a Client for the configured server.
type Dialer func(addr string, timeout time.Duration) (Client, error)

// DialGRPC is the production Dialer.
func DialGRPC(addr string, timeout time.Duration) (Client, error) {
	c, err := authclient.New(addr, timeout)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// App carries what every command needs.
type App struct {
	cfg    *config.Config
	dial   Dialer
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

func NewApp(dial Dialer, in io.Reader, out, errOut io.Writer) *App {
	return &App{dial: dial, in: bufio.NewReader(in), out: out, errOut: errOut}
}

func (a *App) client() (Client, error) {
	return a.dial(a.cfg.ServerEndpointAddr, a.cfg.RequestTimeout)
}

func (a *App) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
