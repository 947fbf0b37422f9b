package bootstrap

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/medicalregister/go-backend/config"
	apihttp "github.com/medicalregister/go-backend/internal/api/http"
	"github.com/medicalregister/go-backend/internal/api/http/middleware"
	"github.com/medicalregister/go-backend/internal/auth"
	recordhttp "github.com/medicalregister/go-backend/internal/records/http"
	"github.com/medicalregister/go-backend/internal/records/repository"
	"github.com/medicalregister/go-backend/internal/records/service"
	"github.com/medicalregister/go-backend/internal/web"
)

type RouterDeps struct {
	Cfg *config.Config
	DB  *sql.DB
	// Store overrides the postgres repository when set (tests).
	Store service.RecordStore
	// Auth serves the web login flow; nil disables /login, /callback, /logout.
	Auth *auth.Authenticator
	// Verifier checks API bearer tokens. Usually the same Authenticator.
	Verifier auth.TokenVerifier
	Revoker  *auth.SessionRevoker
	Logger   *slog.Logger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Logger))
	r.SetHTMLTemplate(web.Templates())

	store := cookie.NewStore([]byte(dep.Cfg.Session.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   dep.Cfg.Session.MaxAgeSeconds,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("medregister_session", store))

	healthHandler := apihttp.NewHealthHandler("medical-register", dep.Cfg.App.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	recordStore := dep.Store
	if recordStore == nil {
		recordStore = repository.NewRecordRepository(dep.DB)
	}
	recordSvc := service.NewRecordService(recordStore, dep.Logger)

	webHandler := web.NewHandler(recordSvc, dep.Logger)
	r.GET("/", auth.OptionalSession(), webHandler.Home)

	if dep.Auth != nil {
		sessionTTL := time.Duration(dep.Cfg.Session.MaxAgeSeconds) * time.Second
		authHandler := auth.NewHandler(dep.Auth, dep.Revoker, dep.Logger, dep.Cfg.Server.BaseURL, sessionTTL)
		authHandler.Register(r)
	}

	recordsGroup := r.Group("/records")
	recordsGroup.Use(auth.RequireSession(dep.Revoker, dep.Logger))
	webHandler.RegisterRecords(recordsGroup)

	api := r.Group("/api/v1")
	api.Use(cors.Default())
	api.Use(auth.RequireBearer(dep.Verifier))

	api.GET("", apiRoot(dep.Cfg.App.Version))

	recordhttp.New(recordSvc, dep.Logger).Register(api.Group("/records"))

	return r
}

// apiRoot serves the API landing endpoint with a welcome message and the
// caller's authentication status.
func apiRoot(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := auth.CurrentIdentity(c)
		resp := gin.H{
			"message":         "Welcome to the Medical Register API v1",
			"version":         version,
			"isAuthenticated": !ident.IsZero(),
		}
		if !ident.IsZero() {
			resp["authenticatedUser"] = auth.CurrentDisplayName(c)
		}
		c.JSON(http.StatusOK, resp)
	}
}
