package apiapp

import (
	"context"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	adssvc "github.com/slayerintech/Lovify/internal/services/ads"
	authsvc "github.com/slayerintech/Lovify/internal/services/auth"
	chatsvc "github.com/slayerintech/Lovify/internal/services/chat"
	decisionsvc "github.com/slayerintech/Lovify/internal/services/decisions"
	entsvc "github.com/slayerintech/Lovify/internal/services/entitlements"
	feedsvc "github.com/slayerintech/Lovify/internal/services/feed"
	matchessvc "github.com/slayerintech/Lovify/internal/services/matches"
	profilesvc "github.com/slayerintech/Lovify/internal/services/profiles"
	ratesvc "github.com/slayerintech/Lovify/internal/services/rate"
	"github.com/slayerintech/Lovify/internal/services/realtime"
	swipesvc "github.com/slayerintech/Lovify/internal/services/swipes"
	"github.com/slayerintech/Lovify/internal/transport/http/dto"
	"github.com/slayerintech/Lovify/internal/transport/http/handlers"
)

type Dependencies struct {
	AdsService         *adssvc.Service
	AuthService        *authsvc.Service
	ChatService        *chatsvc.Service
	RateLimiter        *ratesvc.Limiter
	DecisionService    *decisionsvc.Service
	EntitlementService *entsvc.Service
	FeedService        *feedsvc.Service
	MatchService       *matchessvc.Service
	ProfileService     *profilesvc.Service
	SwipeService       *swipesvc.Service
	Hub                *realtime.Hub
	Limits             dto.ConfigLimitsResponse
	Ping               func(ctx context.Context) error
	Logger             *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler(deps.Ping)
	configHandler := handlers.NewConfigHandler(deps.ProfileService, deps.Limits)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService, deps.EntitlementService)
	feedHandler := handlers.NewFeedHandler(deps.FeedService)
	swipeHandler := handlers.NewSwipeHandler(deps.SwipeService, deps.DecisionService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService)
	chatHandler := handlers.NewChatHandler(deps.ChatService)
	adsHandler := handlers.NewAdsHandler(deps.AdsService, deps.EntitlementService)
	quotaHandler := handlers.NewQuotaHandler(deps.RateLimiter, deps.EntitlementService, deps.Limits.FreeLikesPerDay)
	realtimeHandler := handlers.NewRealtimeHandler(deps.Hub)
	authMW := AuthMiddleware(deps.AuthService, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/v1", func(r chi.Router) {
		r.Use(authMW)

		// long-lived, so outside the request timeout
		r.Get("/ws", realtimeHandler.Serve)

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Timeout(requestTimeout))

			r.Get("/config/options", configHandler.Options)

			r.Get("/me/profile", profileHandler.Get)
			r.Put("/me/profile", profileHandler.Save)
			r.Delete("/me", profileHandler.DeleteAccount)
			r.Post("/me/premium", profileHandler.SyncPremium)
			r.Get("/me/quota", quotaHandler.Get)

			r.Get("/feed", feedHandler.Feed)
			r.Get("/feed/reset", feedHandler.Reset)

			r.Post("/swipes", swipeHandler.Swipe)
			r.Get("/decisions/{candidateID}", swipeHandler.GetDecision)

			r.Post("/matches/recheck", swipeHandler.Recheck)
			r.Get("/matches", matchesHandler.List)
			r.Get("/matches/{matchID}", matchesHandler.Get)
			r.Get("/matches/{matchID}/messages", chatHandler.History)
			r.Post("/matches/{matchID}/messages", chatHandler.Send)

			r.Get("/ads/placements/{placement}", adsHandler.Placement)
		})
	})
}
