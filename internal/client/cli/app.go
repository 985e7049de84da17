package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/connectlink/internal/client/client"
	"github.com/dmitrijs2005/connectlink/internal/client/config"
	"github.com/dmitrijs2005/connectlink/internal/client/services"
	"github.com/dmitrijs2005/connectlink/internal/client/session"
)

// getSimpleText and getPassword are indirections used by tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

type App struct {
	config *config.Config
	auth   services.AuthService
	closer io.Closer
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) *App {
	return &App{config: c, reader: bufio.NewReader(os.Stdin), out: os.Stdout}
}

// init opens the session store and the API client once flags are parsed.
// An App built with an AuthService already set skips this.
func (a *App) init(ctx context.Context) error {
	if a.auth != nil {
		return nil
	}

	apiClient, err := client.NewHTTPClient(a.config.ServerURL, a.config.RequestTimeout)
	if err != nil {
		return err
	}

	store, err := session.Open(ctx, a.config.SessionFile)
	if err != nil {
		return err
	}

	a.auth = services.NewAuthService(apiClient, store)
	a.closer = store
	return nil
}

func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Run executes the command line in args and releases the session store.
func (a *App) Run(ctx context.Context, args []string) error {
	defer a.Close()

	root := a.rootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *App) readCredentials(email string) (string, []byte, error) {
	if email == "" {
		var err error
		email, err = getSimpleText(a.reader, "Enter email", a.out)
		if err != nil {
			return "", nil, err
		}
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}
