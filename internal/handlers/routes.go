package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shivam1272/backend-revision/internal/middleware"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Logger         *slog.Logger
	Sessions       SessionService
	Authenticator  middleware.Authenticator
	Accounts       AccountService
	Tweets         TweetService
	Videos         VideoService
	Subscriptions  SubscriptionService
	DB             Pinger
	Limiter        middleware.RateLimiter
	Metrics        *middleware.Metrics
	MetricsHandler http.Handler
	Cookies        CookieConfig
	MaxUploadBytes int64
}

// NewRouter wires HTTP handlers into a chi router. Routes marked with RequireAuth need an
// access token; every other route resolves the caller when a token is present.
func NewRouter(deps Dependencies) http.Handler {
	health := HealthHandler{DB: deps.DB}
	sessions := AuthHandler{Sessions: deps.Sessions, Cookies: deps.Cookies}
	users := UserHandler{Accounts: deps.Accounts, MaxUploadBytes: deps.MaxUploadBytes}
	tweets := TweetHandler{Tweets: deps.Tweets}
	videos := VideoHandler{Videos: deps.Videos, MaxUploadBytes: deps.MaxUploadBytes}
	subscriptions := SubscriptionHandler{Subscriptions: deps.Subscriptions}

	limit := func(scope string) func(http.Handler) http.Handler {
		return middleware.RateLimit(deps.Limiter, scope)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler)
	}
	r.Use(middleware.Authenticate(deps.Authenticator))

	r.Get("/healthz", health.Handle)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.With(limit("register")).Post("/register", users.Register)
			r.With(limit("login")).Post("/login", sessions.Login)
			r.With(limit("refresh")).Post("/refresh-token", sessions.Refresh)
			r.Get("/c/{username}", users.ChannelProfile)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/logout", sessions.Logout)
				r.Post("/change-password", sessions.ChangePassword)
				r.Get("/current-user", users.CurrentUser)
				r.Patch("/update-account", users.UpdateAccount)
				r.Patch("/avatar", users.UpdateAvatar)
				r.Patch("/cover-image", users.UpdateCoverImage)
				r.Get("/history", users.WatchHistory)
			})
		})

		r.Route("/tweets", func(r chi.Router) {
			r.Get("/user/{userId}", tweets.ListByUser)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/", tweets.Create)
				r.Patch("/{tweetId}", tweets.Update)
				r.Delete("/{tweetId}", tweets.Delete)
			})
		})

		r.Route("/videos", func(r chi.Router) {
			r.Get("/", videos.List)
			r.Get("/{videoId}", videos.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/", videos.Publish)
				r.Patch("/{videoId}", videos.Update)
				r.Delete("/{videoId}", videos.Delete)
				r.Patch("/toggle/publish/{videoId}", videos.TogglePublish)
			})
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/c/{channelId}", subscriptions.Subscribers)
			r.Get("/u/{subscriberId}", subscriptions.SubscribedChannels)
			r.With(middleware.RequireAuth).Post("/c/{channelId}", subscriptions.Toggle)
		})
	})

	return r
}
