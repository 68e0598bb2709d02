// Package wire provides dependency injection for the bluehome client.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	cliadapter "github.com/pipemene/bluehome-os/internal/adapters/cli"
	"github.com/pipemene/bluehome-os/internal/adapters/filesystem"
	"github.com/pipemene/bluehome-os/internal/adapters/httpapi"
	"github.com/pipemene/bluehome-os/internal/adapters/keyring"
	"github.com/pipemene/bluehome-os/internal/adapters/pdf"
	"github.com/pipemene/bluehome-os/internal/adapters/sqlite"
	"github.com/pipemene/bluehome-os/internal/adapters/xlsx"
	"github.com/pipemene/bluehome-os/internal/app"
	"github.com/pipemene/bluehome-os/internal/config"
	"github.com/pipemene/bluehome-os/internal/db"
	"github.com/pipemene/bluehome-os/internal/logger"
	"github.com/pipemene/bluehome-os/internal/ports/primary"
	"github.com/pipemene/bluehome-os/internal/ports/secondary"
)

var (
	configPath string

	cfg *config.Config
	log zerolog.Logger

	sessionService    primary.SessionService
	intakeService     primary.IntakeService
	dispatchService   primary.DispatchService
	technicianService primary.TechnicianService
	workService       primary.WorkService
	fileLoader        secondary.FileLoader

	once    sync.Once
	initErr error
)

// SetConfigPath selects the config file. It must be called before Init.
func SetConfigPath(path string) {
	configPath = path
}

// Init loads configuration and builds every service. It is safe to call
// repeatedly; only the first call does work.
func Init() error {
	once.Do(initServices)
	return initErr
}

func mustInit() {
	if err := Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize: %v\n", err)
		os.Exit(1)
	}
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	loaded, err := config.Load(configPath)
	if err != nil {
		initErr = err
		return
	}
	cfg = loaded

	log, err = logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		initErr = err
		return
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		initErr = err
		return
	}
	db.SetDataDir(dataDir)
	database, err := db.GetDB()
	if err != nil {
		initErr = fmt.Errorf("failed to initialize database: %w", err)
		return
	}

	// Local adapters (secondary ports)
	var credentials secondary.CredentialStore
	switch cfg.Session.Store {
	case config.StoreKeyring:
		credentials = keyring.NewCredentialStore()
	default:
		credentials = sqlite.NewCredentialStore(database)
	}
	drafts := sqlite.NewDraftRepository(database)
	fileLoader = filesystem.NewMediaLoader(0)

	// Backend adapters
	client := httpapi.NewClient(cfg.APIURL,
		httpapi.WithTimeout(cfg.HTTP.Timeout),
		httpapi.WithLogger(log.With().Str("component", "httpapi").Logger()),
		httpapi.WithTokenSource(tokenFrom(credentials)),
	)
	orders := httpapi.NewOrderGateway(client)
	uploads := app.NewUploadResolver(httpapi.NewUploadGateway(client), log)
	renderer := pdf.NewRenderer(httpapi.NewMediaFetcher(client), log)

	// Services (primary ports)
	sessionService = app.NewSessionService(httpapi.NewAuthGateway(client), credentials, cfg.Technician.Name, log)
	intakeService = app.NewIntakeService(orders, httpapi.NewNotifyGateway(client), uploads, log)
	dispatchService = app.NewDispatchService(orders, xlsx.NewBoardWriter(), log)
	technicianService = app.NewTechnicianService(orders, log)
	workService = app.NewWorkService(orders, drafts, uploads, renderer, httpapi.NewMailGateway(client), cfg.Document.Company, log)

	log.Debug().Str("api_url", cfg.APIURL).Str("data_dir", dataDir).Str("session_store", cfg.Session.Store).Msg("services initialized")
}

// tokenFrom reads the bearer token from the credential store on every call,
// so a login in the same process takes effect immediately.
func tokenFrom(store secondary.CredentialStore) httpapi.TokenSource {
	return func(ctx context.Context) (string, error) {
		cred, err := store.Load(ctx)
		if err != nil || cred == nil {
			return "", err
		}
		return cred.Token, nil
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	mustInit()
	return cfg
}

// Logger returns the process logger.
func Logger() zerolog.Logger {
	mustInit()
	return log
}

// SessionService returns the singleton SessionService instance.
func SessionService() primary.SessionService {
	mustInit()
	return sessionService
}

// FileLoader returns the local media loader.
func FileLoader() secondary.FileLoader {
	mustInit()
	return fileLoader
}

// SessionAdapter returns a new SessionAdapter writing to stdout.
func SessionAdapter() *cliadapter.SessionAdapter {
	return SessionAdapterWithOutput(os.Stdout)
}

// SessionAdapterWithOutput returns a new SessionAdapter writing to the given output.
func SessionAdapterWithOutput(out io.Writer) *cliadapter.SessionAdapter {
	mustInit()
	return cliadapter.NewSessionAdapter(sessionService, out)
}

// IntakeAdapter returns a new IntakeAdapter writing to stdout.
func IntakeAdapter() *cliadapter.IntakeAdapter {
	return IntakeAdapterWithOutput(os.Stdout)
}

// IntakeAdapterWithOutput returns a new IntakeAdapter writing to the given output.
func IntakeAdapterWithOutput(out io.Writer) *cliadapter.IntakeAdapter {
	mustInit()
	return cliadapter.NewIntakeAdapter(intakeService, out)
}

// OrderAdapter returns a new OrderAdapter writing to stdout.
func OrderAdapter() *cliadapter.OrderAdapter {
	return OrderAdapterWithOutput(os.Stdout)
}

// OrderAdapterWithOutput returns a new OrderAdapter writing to the given output.
func OrderAdapterWithOutput(out io.Writer) *cliadapter.OrderAdapter {
	mustInit()
	return cliadapter.NewOrderAdapter(dispatchService, out)
}

// TechnicianAdapter returns a new TechnicianAdapter writing to stdout.
func TechnicianAdapter() *cliadapter.TechnicianAdapter {
	return TechnicianAdapterWithOutput(os.Stdout)
}

// TechnicianAdapterWithOutput returns a new TechnicianAdapter writing to the given output.
func TechnicianAdapterWithOutput(out io.Writer) *cliadapter.TechnicianAdapter {
	mustInit()
	return cliadapter.NewTechnicianAdapter(technicianService, out)
}

// WorkAdapter returns a new WorkAdapter writing to stdout.
func WorkAdapter() *cliadapter.WorkAdapter {
	return WorkAdapterWithOutput(os.Stdout)
}

// WorkAdapterWithOutput returns a new WorkAdapter writing to the given output.
func WorkAdapterWithOutput(out io.Writer) *cliadapter.WorkAdapter {
	mustInit()
	return cliadapter.NewWorkAdapter(workService, out)
}

// Close releases the database.
func Close() error {
	return db.Close()
}
