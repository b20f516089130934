package dto

type PlacementResponse struct {
	Placement string `json:"placement"`
	Show      bool   `json:"show"`
}
