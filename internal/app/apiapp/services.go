package apiapp

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/slayerintech/Lovify/internal/app/storage"
	"github.com/slayerintech/Lovify/internal/config"
	s3infra "github.com/slayerintech/Lovify/internal/infra/s3"
	"github.com/slayerintech/Lovify/internal/jobs/reconcile"
	redrepo "github.com/slayerintech/Lovify/internal/repo/redis"
	adssvc "github.com/slayerintech/Lovify/internal/services/ads"
	authsvc "github.com/slayerintech/Lovify/internal/services/auth"
	chatsvc "github.com/slayerintech/Lovify/internal/services/chat"
	decisionsvc "github.com/slayerintech/Lovify/internal/services/decisions"
	entsvc "github.com/slayerintech/Lovify/internal/services/entitlements"
	feedsvc "github.com/slayerintech/Lovify/internal/services/feed"
	matchessvc "github.com/slayerintech/Lovify/internal/services/matches"
	mediasvc "github.com/slayerintech/Lovify/internal/services/media"
	profilesvc "github.com/slayerintech/Lovify/internal/services/profiles"
	ratesvc "github.com/slayerintech/Lovify/internal/services/rate"
	"github.com/slayerintech/Lovify/internal/services/realtime"
	swipesvc "github.com/slayerintech/Lovify/internal/services/swipes"
)

// Services is the wired service graph shared by the API server and lovifyctl.
type Services struct {
	Auth         *authsvc.Service
	Profiles     *profilesvc.Service
	Entitlements *entsvc.Service
	Feed         *feedsvc.Service
	Decisions    *decisionsvc.Service
	Matches      *matchessvc.Service
	RateLimiter  *ratesvc.Limiter
	Ads          *adssvc.Service
	Swipes       *swipesvc.Service
	Chat         *chatsvc.Service
	Hub          *realtime.Hub
	Pending      *redrepo.PendingRepo
	Reconcile    *reconcile.Job
}

func NewServices(ctx context.Context, cfg config.Config, backend *storage.Backend, log *zap.Logger) (*Services, error) {
	if backend == nil {
		return nil, fmt.Errorf("storage backend is nil")
	}
	if log == nil {
		log = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Limits.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load limits timezone: %w", err)
	}

	rateRepo := redrepo.NewRateRepo(backend.Redis)
	pendingRepo := redrepo.NewPendingRepo(backend.Redis)
	chatRepo := redrepo.NewChatRepo(backend.Redis)

	hub := realtime.NewHub(log)
	entitlementService := entsvc.NewService(backend.Profiles)
	decisionService := decisionsvc.NewService(backend.Decisions, decisionsvc.Config{
		StoreTimeout: cfg.Matching.StoreTimeout,
	})
	feedService := feedsvc.NewService(backend.Profiles, backend.Decisions, feedsvc.Config{
		DefaultLimit: cfg.Matching.FeedLimit,
		StoreTimeout: cfg.Matching.StoreTimeout,
	})
	matchService := matchessvc.NewService(matchessvc.Dependencies{
		Decisions: backend.Decisions,
		Profiles:  backend.Profiles,
		Matches:   backend.Matches,
	}, matchessvc.Config{
		ReverseReadRetries: cfg.Matching.ReverseReadRetries,
		RetryBackoff:       cfg.Matching.RetryBackoff,
		StoreTimeout:       cfg.Matching.StoreTimeout,
	})
	matchService.AttachNotifier(hub)

	if signer := newPhotoSigner(ctx, cfg.S3, log); signer != nil {
		feedService.AttachPhotoSigner(signer)
		matchService.AttachPhotoSigner(signer)
	}

	rateLimiter := ratesvc.NewLimiter(rateRepo, cfg.Limits.SwipesPerMinute, cfg.Limits.SwipesPer10Sec, loc)
	adsService := adssvc.NewService(rateRepo, adssvc.Config{
		SwipeInterstitialEvery: cfg.Ads.SwipeInterstitialEvery,
	})
	swipeService := swipesvc.NewService(swipesvc.Dependencies{
		Profiles:     backend.Profiles,
		Entitlements: entitlementService,
		RateLimiter:  rateLimiter,
		Decisions:    decisionService,
		Matches:      matchService,
		Pending:      pendingRepo,
		Ads:          adsService,
		Logger:       log,
	}, swipesvc.Config{
		FreeLikesPerDay: cfg.Limits.FreeLikesPerDay,
	})

	chatService := chatsvc.NewService(matchService, chatRepo)
	chatService.AttachBroadcaster(hub)

	return &Services{
		Auth: authsvc.NewService(authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)),
		Profiles: profilesvc.NewService(profilesvc.Dependencies{
			Profiles:  backend.Profiles,
			Decisions: backend.Decisions,
			Logger:    log,
		}),
		Entitlements: entitlementService,
		Feed:         feedService,
		Decisions:    decisionService,
		Matches:      matchService,
		RateLimiter:  rateLimiter,
		Ads:          adsService,
		Swipes:       swipeService,
		Chat:         chatService,
		Hub:          hub,
		Pending:      pendingRepo,
		Reconcile:    reconcile.New(pendingRepo, swipeService, cfg.Reconcile.BatchSize, log),
	}, nil
}

// newPhotoSigner returns nil when object storage is not configured or not
// reachable; photos are then served as stored.
func newPhotoSigner(ctx context.Context, cfg config.S3Config, log *zap.Logger) *mediasvc.PhotoSigner {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil
	}
	client, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Region:    cfg.Region,
		UseSSL:    cfg.UseSSL,
	})
	if err != nil {
		log.Warn("s3 init failed, photo urls will not be signed", zap.Error(err))
		return nil
	}

	objects := mediasvc.NewBucket(client, cfg.Bucket)
	ensureCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := objects.EnsureBucket(ensureCtx); err != nil {
		log.Warn("s3 bucket unavailable, photo urls will not be signed", zap.Error(err))
		return nil
	}
	return mediasvc.NewPhotoSigner(objects, cfg.PresignTTL)
}
