package enums

type AdPlacement string

const (
	AdPlacementSaveProfile   AdPlacement = "save_profile"
	AdPlacementSwipe         AdPlacement = "swipe"
	AdPlacementChat          AdPlacement = "chat"
	AdPlacementMatchesBanner AdPlacement = "matches_banner"
	AdPlacementChatsBanner   AdPlacement = "chats_banner"
)

func (p AdPlacement) Valid() bool {
	switch p {
	case AdPlacementSaveProfile, AdPlacementSwipe, AdPlacementChat, AdPlacementMatchesBanner, AdPlacementChatsBanner:
		return true
	default:
		return false
	}
}
