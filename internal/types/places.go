package types

// PlaceMatch is a best-effort place lookup result.
type PlaceMatch struct {
	PlaceID string   `json:"place_id"`
	Name    string   `json:"name"`
	Address string   `json:"address,omitempty"`
	Rating  *float64 `json:"rating,omitempty"`
	MapsURI string   `json:"maps_uri,omitempty"`
}

// EnrichmentReport summarizes one enrichment pass over an itinerary.
type EnrichmentReport struct {
	Attempted int `json:"attempted"`
	Enriched  int `json:"enriched"`
	Failed    int `json:"failed"`
}
