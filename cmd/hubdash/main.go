package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/google/uuid"
	"github.com/hubdash/go-hub-dashboards/authflow"
	"github.com/hubdash/go-hub-dashboards/bootstrap"
	"github.com/hubdash/go-hub-dashboards/credentials"
	"github.com/hubdash/go-hub-dashboards/internal/config"
	"github.com/hubdash/go-hub-dashboards/kvstore/filestore"
	"github.com/hubdash/go-hub-dashboards/platform"
	"github.com/hubdash/go-hub-dashboards/profile"
	"github.com/hubdash/go-hub-dashboards/records"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	kv, err := filestore.New(c.GetDataFolder())
	if err != nil {
		return fmt.Errorf("filestore.New: %w", err)
	}

	catalog, err := records.NewCatalog(kv, records.WithCatalogLogger(logger))
	if err != nil {
		return fmt.Errorf("records.NewCatalog: %w", err)
	}

	credStore, err := credentials.NewStore(kv, credentials.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("credentials.NewStore: %w", err)
	}

	client, err := platform.NewClient(c.GetPlatformBaseURL(), platform.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("platform.NewClient: %w", err)
	}

	resolver, err := profile.NewResolver(client, profile.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("profile.NewResolver: %w", err)
	}

	exchanger := authflow.NewOAuth2Exchanger(c)

	controller, err := authflow.NewController(authflow.Deps{
		Credentials: credStore,
		Exchanger:   exchanger,
		Profile:     resolver,
	}, authflow.WithLogger(logger), authflow.WithDirectTokenLifetime(c.GetDirectTokenLifetime()))
	if err != nil {
		return fmt.Errorf("authflow.NewController: %w", err)
	}

	bootstrapper, err := bootstrap.New(controller, bootstrap.WithLogger(logger), bootstrap.WithCatalog(catalog))
	if err != nil {
		return fmt.Errorf("bootstrap.New: %w", err)
	}

	query, err := startupQuery(c, exchanger, logger)
	if err != nil {
		return err
	}

	result, err := bootstrapper.Run(context.Background(), query)
	if err != nil {
		return fmt.Errorf("bootstrapper.Run: %w", err)
	}

	if result.State != authflow.StateAuthenticated {
		logger.Info().Msg("no session acquired, exiting")
		return nil
	}

	return showWorkspace(context.Background(), client, result, catalog, logger)
}

// startupQuery builds the query the bootstrapper resolves. A token passed
// via the TOKEN env var models the direct-paste path; otherwise, when no
// cached session exists, the redirect flow runs against a short-lived
// localhost listener that captures the platform's callback.
func startupQuery(c config.Config, exchanger *authflow.OAuth2Exchanger, logger zerolog.Logger) (url.Values, error) {
	query := url.Values{}

	if token := os.Getenv("TOKEN"); token != "" {
		query.Set("token", token)
		return query, nil
	}

	if hasCachedSession(c) {
		return query, nil
	}

	if c.GetClientID() == "" {
		logger.Info().Msg("no OAUTH_CLIENT_ID configured, continuing unauthenticated")
		return query, nil
	}

	code, err := awaitCallback(c, exchanger, logger)
	if err != nil {
		return nil, err
	}
	if code != "" {
		query.Set("code", code)
	}
	return query, nil
}

func hasCachedSession(c config.Config) bool {
	kv, err := filestore.New(c.GetDataFolder())
	if err != nil {
		return false
	}
	store, err := credentials.NewStore(kv)
	if err != nil {
		return false
	}
	return store.Get() != nil
}

// awaitCallback runs a localhost HTTP listener until the platform redirects
// back with an authorization code, or the process is interrupted.
func awaitCallback(c config.Config, exchanger *authflow.OAuth2Exchanger, logger zerolog.Logger) (string, error) {
	state := uuid.New().String()
	codeCh := make(chan string, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "Signed in. You can close this window.")
		codeCh <- code
	})

	server := &http.Server{Addr: c.GetPort(), Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("callback listener failed")
		}
	}()
	defer shutdown(server)

	logger.Info().Msg("open the following URL to sign in:")
	fmt.Println(exchanger.AuthCodeURL(state))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case code := <-codeCh:
		return code, nil
	case <-stop:
		logger.Info().Msg("interrupted before callback")
		return "", nil
	}
}

func shutdown(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(ctx)
}

// showWorkspace prints the authenticated user's hubs and the local catalog.
func showWorkspace(ctx context.Context, client *platform.Client, result *authflow.Result, catalog *records.Catalog, logger zerolog.Logger) error {
	if result.Profile != nil {
		logger.Info().Str("user", result.Profile.DisplayName).Str("email", result.Profile.Email).Msg("signed in")
	} else if result.ProfileErr != nil {
		logger.Warn().Err(result.ProfileErr).Msg("signed in, profile unavailable")
	}

	hubs, err := client.ListHubs(ctx, result.Session.AccessToken)
	if err != nil {
		logger.Warn().Err(err).Msg("could not list hubs")
	}
	for _, hub := range hubs {
		projects, err := client.ListProjects(ctx, result.Session.AccessToken, hub.ID)
		if err != nil {
			logger.Warn().Err(err).Str("hub", hub.Name).Msg("could not list projects")
			continue
		}
		logger.Info().Str("hub", hub.Name).Int("projects", len(projects)).Msg("hub available")
	}

	for _, project := range catalog.Projects.GetAll() {
		dashboards := catalog.Dashboards.QueryByProject(project.ID)
		logger.Info().Str("project", project.Name).Int("dashboards", len(dashboards)).Msg("local project")
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
