package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/quotevote/authkeeper/internal/client/authclient"
	"github.com/quotevote/authkeeper/internal/client/config"
	"github.com/quotevote/authkeeper/internal/common"
	"github.com/spf13/cobra"
)

const (
	envAccessToken  = "AUTHKEEPER_ACCESS_TOKEN"
	envRefreshToken = "AUTHKEEPER_REFRESH_TOKEN"
)

// NewRootCommand builds the command tree.
func (a *App) NewRootCommand() *cobra.Command {
	var (
		configPath string
		addr       string
		timeout    = defaultTimeout()
	)

	root := &cobra.Command{
		Use:           "authkeeper",
		Short:         "Client for the quote & vote authentication service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.ServerEndpointAddr = addr
			}
			if cmd.Flags().Changed("timeout") {
				cfg.RequestTimeout = timeout
			}
			a.cfg = cfg
			return nil
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "JSON config file")
	root.PersistentFlags().StringVarP(&addr, "addr", "a", "", "server address host:port (env "+config.EnvServerAddr+")")
	root.PersistentFlags().DurationVarP(&timeout, "timeout", "t", timeout, "per-request timeout")

	root.AddCommand(
		a.guestCommand(),
		a.registerCommand(),
		a.loginCommand(),
		a.refreshCommand(),
		a.verifyCommand(),
	)
	return root
}

func defaultTimeout() time.Duration {
	var c config.Config
	c.LoadDefaults()
	return c.RequestTimeout
}

func (a *App) guestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "guest",
		Short: "Create a guest account and print its tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd.Context(), func(ctx context.Context, c Client) error {
				s, err := c.CreateGuest(ctx)
				if err != nil {
					return err
				}
				return a.print(s)
			})
		},
	}
}

func (a *App) registerCommand() *cobra.Command {
	var req authclient.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register an account; the password is read from the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := GetPassword(a.in, a.errOut)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)
			req.Password = string(pw)

			return a.withClient(cmd.Context(), func(ctx context.Context, c Client) error {
				acc, err := c.Register(ctx, req)
				if err != nil {
					return err
				}
				return a.print(acc)
			})
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "username")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func (a *App) loginCommand() *cobra.Command {
	var identifier string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with a username or email; the password is read from the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if identifier == "" {
				var err error
				if identifier, err = GetSimpleText(a.in, "Username or email", a.errOut); err != nil {
					return err
				}
			}
			pw, err := GetPassword(a.in, a.errOut)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)

			return a.withClient(cmd.Context(), func(ctx context.Context, c Client) error {
				s, err := c.Login(ctx, identifier, string(pw))
				if err != nil {
					return err
				}
				return a.print(s)
			})
		},
	}
	cmd.Flags().StringVarP(&identifier, "identifier", "u", "", "username or email")
	return cmd
}

func (a *App) refreshCommand() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Exchange a refresh token for a new access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if token == "" {
				token = os.Getenv(envRefreshToken)
			}
			return a.withClient(cmd.Context(), func(ctx context.Context, c Client) error {
				t, err := c.Refresh(ctx, token)
				if err != nil {
					return err
				}
				return a.print(t)
			})
		},
	}
	cmd.Flags().StringVar(&token, "refresh-token", "", "refresh token (env "+envRefreshToken+")")
	return cmd
}

func (a *App) verifyCommand() *cobra.Command {
	var tokens authclient.Tokens
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify an access token, refreshing it once if it has expired",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if tokens.AccessToken == "" {
				tokens.AccessToken = os.Getenv(envAccessToken)
			}
			if tokens.RefreshToken == "" {
				tokens.RefreshToken = os.Getenv(envRefreshToken)
			}
			if tokens.AccessToken == "" {
				return fmt.Errorf("%w: no access token given", common.ErrValidation)
			}
			return a.withClient(cmd.Context(), func(ctx context.Context, c Client) error {
				c.SetTokens(tokens)
				info, err := c.Verify(ctx)
				if err != nil {
					return err
				}
				return a.print(info)
			})
		},
	}
	cmd.Flags().StringVar(&tokens.AccessToken, "token", "", "access token (env "+envAccessToken+")")
	cmd.Flags().StringVar(&tokens.RefreshToken, "refresh-token", "", "refresh token used if the access token expired (env "+envRefreshToken+")")
	return cmd
}

func (a *App) withClient(ctx context.Context, fn func(context.Context, Client) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := a.client()
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(ctx, c)
}
