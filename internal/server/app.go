// Package server wires configuration, stores, the signing-secret vault and
// both transports into a runnable application, and handles graceful
// shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/storypoint/internal/logging"
	"github.com/dmitrijs2005/storypoint/internal/server/auth"
	"github.com/dmitrijs2005/storypoint/internal/server/awsx"
	"github.com/dmitrijs2005/storypoint/internal/server/config"
	"github.com/dmitrijs2005/storypoint/internal/server/gate"
	"github.com/dmitrijs2005/storypoint/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/storypoint/internal/server/rest"
	"github.com/dmitrijs2005/storypoint/internal/server/services"
	"github.com/dmitrijs2005/storypoint/internal/server/vault"

	gs "github.com/dmitrijs2005/storypoint/internal/server/grpc"
)

var (
	openPostgres  = repomanager.OpenPostgres
	loadAWSConfig = awsx.LoadConfig
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	users  *services.UserService
	rooms  *services.RoomService
	gate   *gate.Gate
	cookie gate.CookiePolicy
}

func NewApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(c.LogFormat, c.LogLevel, logOut)

	sameSite, err := gate.ParseSameSite(c.CookieSameSite)
	if err != nil {
		return nil, err
	}

	var clients *awsx.Clients
	if c.StoreBackend == config.BackendDynamoDB || c.SecretSource != config.SecretSourceStatic {
		awsCfg, err := loadAWSConfig(ctx, awsx.Options{
			Region:          c.AWSRegion,
			Endpoint:        c.AWSEndpoint,
			AccessKeyID:     c.AWSAccessKeyID,
			SecretAccessKey: c.AWSSecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("aws config: %w", err)
		}
		clients = awsx.NewClients(awsCfg, c.AWSEndpoint)
	}

	repos, err := newRepositoryManager(ctx, c, clients)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	source, err := newSecretSource(c, clients)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	tokens := auth.NewTokenIssuer(auth.NewSecretCache(source), c.SessionTTL())
	hasher := auth.NewBcryptHasher(auth.WithCost(c.PasswordCost))

	return &App{
		config: c,
		logger: logger,
		repos:  repos,
		users:  services.NewUserService(repos.Users(), hasher, tokens, logger, services.WithStoreTimeout(c.StoreTimeout)),
		rooms:  services.NewRoomService(repos.Rooms(), logger, services.WithStoreTimeout(c.StoreTimeout)),
		gate:   gate.New(tokens, logger),
		cookie: gate.CookiePolicy{TTL: c.SessionTTL(), Domain: c.RootDomain, SameSite: sameSite},
	}, nil
}

func newRepositoryManager(ctx context.Context, c *config.Config, clients *awsx.Clients) (repomanager.RepositoryManager, error) {
	switch c.StoreBackend {
	case config.BackendPostgres:
		m, err := openPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.BackendDynamoDB:
		return repomanager.NewDynamoRepositoryManager(clients.DynamoDB, repomanager.Tables{
			Users:      c.UsersTable,
			UserEmails: c.EmailsTable,
			Rooms:      c.RoomsTable,
		}), nil
	case config.BackendMemory:
		return repomanager.NewInMemoryRepositoryManager(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", c.StoreBackend)
}

func newSecretSource(c *config.Config, clients *awsx.Clients) (vault.Source, error) {
	switch c.SecretSource {
	case config.SecretSourceStatic:
		return vault.StaticSource(c.SecretKey), nil
	case config.SecretSourceSecretsManager:
		return vault.NewSecretsManagerSource(clients.SecretsManager, c.JWTSecretARN, c.VaultTimeout), nil
	case config.SecretSourceS3:
		return vault.NewS3Source(clients.S3, c.SecretBucket, c.SecretObjectKey, c.VaultTimeout), nil
	}
	return nil, fmt.Errorf("unknown secret source %q", c.SecretSource)
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves HTTP and, when configured, gRPC until ctx is cancelled, a
// signal arrives or one of the servers fails. The store is closed on exit.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	run := func(name string, serve func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := serve(ctx); err != nil {
				app.logger.Error(ctx, "server failed", "server", name, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				cancelFunc()
			}
		}()
	}

	handler := rest.NewHandler(app.users, app.rooms, app.gate, app.cookie, app.logger)
	run("http", rest.NewServer(app.config.HTTPAddr, handler.Router(), app.logger).Run)

	if app.config.GRPCAddr != "" {
		run("grpc", gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.users, app.rooms, app.gate, app.cookie).Run)
	}

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "store close failed", "error", err)
		errs = append(errs, err)
	}

	app.logger.Info(ctx, "App stopped")
	return errors.Join(errs...)
}
