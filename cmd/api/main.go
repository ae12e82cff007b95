package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/tronxlabs/attendance-backend-go/internal/config"
	appHTTP "github.com/tronxlabs/attendance-backend-go/internal/handler/http"
	"github.com/tronxlabs/attendance-backend-go/internal/pkg/database"
	"github.com/tronxlabs/attendance-backend-go/internal/pkg/geo"
	"github.com/tronxlabs/attendance-backend-go/internal/pkg/jwt"
	"github.com/tronxlabs/attendance-backend-go/internal/pkg/kv"
	"github.com/tronxlabs/attendance-backend-go/internal/pkg/oauth"
	"github.com/tronxlabs/attendance-backend-go/internal/repository/localcache"
	"github.com/tronxlabs/attendance-backend-go/internal/repository/postgresql"
	"github.com/tronxlabs/attendance-backend-go/internal/repository/remote"
	attendanceService "github.com/tronxlabs/attendance-backend-go/internal/service/attendance"
	authService "github.com/tronxlabs/attendance-backend-go/internal/service/auth"
	userService "github.com/tronxlabs/attendance-backend-go/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	var kvStore kv.Store
	if cfg.Cache.Dir != "" {
		kvStore, err = kv.NewFileStore(cfg.Cache.Dir)
		if err != nil {
			log.Fatal("Failed to initialize cache directory: ", err)
		}
	} else {
		kvStore = kv.NewMemoryStore()
	}
	cache := localcache.NewStore(kvStore)

	var syncStore remote.Store
	switch cfg.Sync.Backend {
	case config.SyncBackendSheets:
		syncStore = remote.NewSheetsStore(cfg.Sync.SheetsAPIURL, cache)
	case config.SyncBackendProxy:
		syncStore = remote.NewProxyStore(cfg.Sync.ProxyAPIURL)
	case config.SyncBackendSupabase:
		syncStore = remote.NewRestStore(cfg.Sync.SupabaseURL, cfg.Sync.SupabaseAnonKey)
	case config.SyncBackendPostgres:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			log.Fatal("Failed to connect to database: ", err)
		}
		syncStore = postgresql.NewStore(db)
	case config.SyncBackendNone:
		// Demo mode: the sheets adapter with no endpoint keeps everything
		// in the local mirror.
		syncStore = remote.NewSheetsStore("", cache)
	default:
		log.Fatal("Unsupported sync backend: ", cfg.Sync.Backend)
	}

	locator := geo.NewHTTPLocator(cfg.Geo.LocatorURL)
	geocoder := geo.NewNominatimGeocoder(cfg.Geo.GeocoderURL)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	var googleService oauth.GoogleService
	if cfg.GoogleLoginEnabled() {
		googleService = oauth.NewGoogleService(
			cfg.OAuth2Google.ClientID,
			cfg.OAuth2Google.ClientSecret,
			cfg.OAuth2Google.RedirectURL,
			cfg.OAuth2Google.Scopes,
		)
	}

	attendanceSvc := attendanceService.NewAttendanceService(cache, syncStore, locator, geocoder)
	authSvc := authService.NewAuthService(syncStore, cache, jwtService, googleService)
	userSvc := userService.NewUserService(syncStore, attendanceSvc)

	authHandler := appHTTP.NewAuthHandler(jwtService, authSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	userHandler := appHTTP.NewUserHandler(userSvc)

	router := appHTTP.NewRouter(
		cfg.App.Env,
		cfg.App.AllowedOrigins,
		jwtService,
		authHandler,
		attendanceHandler,
		userHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
