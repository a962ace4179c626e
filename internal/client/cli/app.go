package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/dmitrijs2005/jobportal/internal/client/api"
	"github.com/dmitrijs2005/jobportal/internal/client/auth"
	"github.com/dmitrijs2005/jobportal/internal/client/config"
	"github.com/dmitrijs2005/jobportal/internal/client/credentials"
	"github.com/dmitrijs2005/jobportal/internal/client/documents"
	"github.com/dmitrijs2005/jobportal/internal/client/fingerprint"
	"github.com/dmitrijs2005/jobportal/internal/client/locale"
	"github.com/dmitrijs2005/jobportal/internal/client/models"
	"github.com/dmitrijs2005/jobportal/internal/client/pager"
	"github.com/dmitrijs2005/jobportal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/jobportal/internal/client/services"
	"github.com/dmitrijs2005/jobportal/internal/client/session"
	"github.com/dmitrijs2005/jobportal/internal/client/storage"
	"github.com/dmitrijs2005/jobportal/internal/client/transport"
	"github.com/dmitrijs2005/jobportal/internal/filex"
	"github.com/dmitrijs2005/jobportal/internal/logging"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	authService    services.AuthService
	vacancyService services.VacancyService
	reader         *bufio.Reader
	out            io.Writer

	feed        *pager.Feed[models.Vacancy]
	loggedIn    atomic.Bool
	unsubscribe func()
}

// NewApp opens the local database under c.DataDir and wires the request
// pipeline, endpoints and services.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	db, err := storage.InitDatabase(ctx, storage.DSN(dir))
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	store := credentials.NewStore(db, credentials.Options{
		TTL:    c.CookieTTL,
		Secure: c.SecureCookies(),
		Domain: c.CookieDomain,
	}, logger)
	fingerprints := fingerprint.NewCache(metadata.NewSQLiteRepository(db), logger)
	locales := locale.NewStore(store)

	if c.Locale != "" {
		l, _ := locale.Parse(c.Locale)
		if err := locales.Set(ctx, l); err != nil {
			logger.Warn(ctx, "cannot store locale", "locale", c.Locale, "error", err)
		}
	}

	state := session.New()
	keeper := auth.NewKeeper(state, store, fingerprints, logger)

	base, err := transport.NewClient(c.APIBaseURL, &http.Client{}, keeper, locales, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	pipeline := transport.NewReauth(base, api.NewRefresher(base), keeper, logger)

	loader := documents.NewLoader(documents.S3Config{
		Region:    c.S3Region,
		Endpoint:  c.S3Endpoint,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
	})

	a := &App{
		config:         c,
		logger:         logger,
		db:             db,
		authService:    services.NewAuthService(api.NewAuthAPI(pipeline, keeper), keeper, locales, fingerprints, logger),
		vacancyService: services.NewVacancyService(api.NewVacanciesAPI(pipeline), loader, logger),
		reader:         bufio.NewReader(os.Stdin),
		out:            os.Stdout,
	}
	a.unsubscribe = state.Subscribe(a.onSessionChange)
	return a, nil
}

// Run restores the previous session, if any, and runs the REPL until the
// user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to jobportal CLI (type 'help' for commands)")

	user, err := a.authService.Restore(ctx)
	switch {
	case err != nil:
		fmt.Fprintln(a.out, "Could not restore session:", err)
	case user != nil:
		fmt.Fprintf(a.out, "Welcome back, %s\n", user.DisplayName())
	}

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.authService.Session().IsLoggedIn()
}

// onSessionChange reports sessions that end without the user asking, such
// as a rejected refresh.
func (a *App) onSessionChange(s session.Snapshot) {
	was := a.loggedIn.Swap(s.IsLoggedIn())
	if was && !s.IsLoggedIn() {
		fmt.Fprintln(a.out, "Signed out.")
	}
}

func (a *App) status() string {
	snap := a.authService.Session()
	lang := a.authService.Language(context.Background())
	if snap.User == nil {
		return fmt.Sprintf("(guest %s)", lang)
	}
	return fmt.Sprintf("(%s %s)", snap.User.DisplayName(), lang)
}
