package dto

import profilesvc "github.com/slayerintech/Lovify/internal/services/profiles"

type ConfigLimitsResponse struct {
	FreeLikesPerDay        int `json:"free_likes_per_day"`
	SwipeInterstitialEvery int `json:"swipe_interstitial_every"`
	FeedLimit              int `json:"feed_limit"`
}

type OptionsResponse struct {
	profilesvc.Options
	Limits ConfigLimitsResponse `json:"limits"`
}
