// Package cli is the interactive storypoint command-line client.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/storypoint/internal/client/api"
	"github.com/dmitrijs2005/storypoint/internal/client/config"
)

// API is the subset of the REST client the commands use.
type API interface {
	SignUp(ctx context.Context, req api.SignUpRequest) (*api.User, error)
	LogIn(ctx context.Context, userName, password string) (*api.User, error)
	ChangePassword(ctx context.Context, current, next string) error
	CreateRoom(ctx context.Context, name string) (*api.Room, error)
	GetRoom(ctx context.Context, id string) (*api.Room, error)
	Ping(ctx context.Context) error
	LogOut()
}

type App struct {
	config   *config.Config
	api      API
	reader   *bufio.Reader
	out      io.Writer
	userName string
}

func NewApp(c *config.Config) (*App, error) {
	client, err := api.New(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return &App{config: c, api: client, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return "guest"
	}
	return a.userName
}

func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to storypoint CLI (type 'help' for commands)")
	if err := a.api.Ping(ctx); err != nil {
		fmt.Fprintln(a.out, "Warning:", err)
	}
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}
