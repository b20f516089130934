package dto

type FeedResponse struct {
	Items []ProfileCard `json:"items"`
	Reset bool          `json:"reset"`
}
