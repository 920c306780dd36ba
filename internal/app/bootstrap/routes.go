// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authfeature "github.com/taskhive/taskhive/internal/app/features/auth"
	authgooglefeature "github.com/taskhive/taskhive/internal/app/features/authgoogle"
	groupsfeature "github.com/taskhive/taskhive/internal/app/features/groups"
	healthfeature "github.com/taskhive/taskhive/internal/app/features/health"
	tasksfeature "github.com/taskhive/taskhive/internal/app/features/tasks"
	"github.com/taskhive/taskhive/internal/app/store/oauthstate"
	"github.com/taskhive/taskhive/internal/app/system/auth"
	"github.com/taskhive/taskhive/internal/app/system/requestlog"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// TaskHive applies the request-ID/logging middleware and session
// loading globally, then mounts the JSON API: auth, groups, tasks, the
// Google sign-in flow, and the health endpoint.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// Request IDs and completion logging for every request.
	r.Use(requestlog.Middleware(logger))

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication: register, login, logout, profile
	authHandler := authfeature.NewHandler(deps.MongoDatabase, sessionMgr, logger)
	r.Mount("/api/auth", authfeature.Routes(authHandler))

	// Google sign-in
	googleHandler := authgooglefeature.NewHandler(
		deps.MongoDatabase,
		sessionMgr,
		oauthstate.New(deps.MongoDatabase),
		appCfg.GoogleClientID,
		appCfg.GoogleClientSecret,
		appCfg.BaseURL,
		logger,
	)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// Groups and memberships
	groupsHandler := groupsfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/api/groups", groupsfeature.Routes(groupsHandler, sessionMgr))

	// Tasks
	tasksHandler := tasksfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/api/tasks", tasksfeature.Routes(tasksHandler, sessionMgr))

	return r, nil
}
