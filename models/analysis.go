package models

// ClimateData holds annual climate aggregates for a coordinate.
type ClimateData struct {
	AverageTemperatureC   float64 `json:"average_temperature_c"`
	AvgTempMaxC           float64 `json:"avg_temp_max_c"`
	AvgTempMinC           float64 `json:"avg_temp_min_c"`
	TotalAnnualRainfallMM float64 `json:"total_annual_rainfall_mm"`
	TotalAnnualET0MM      float64 `json:"total_annual_et0_mm"`
	FrostDays             int     `json:"frost_days"`
	PrecipitationHours    float64 `json:"precipitation_hours"`
	WaterBalance          float64 `json:"water_balance"`
	ClimateSummary        string  `json:"climate_summary"`
}

// AnalyzedListing is a single listing scored by the ranking model.
type AnalyzedListing struct {
	Title              string `json:"title"`
	Price              string `json:"price"`
	Size               string `json:"size"`
	URL                string `json:"url"`
	RelevanceScore     int    `json:"relevance_score"`
	InvestmentStrategy string `json:"investment_strategy"`
}

// AnalysisResponse is the structured response from the ranking model.
type AnalysisResponse struct {
	LocationSummary         string            `json:"location_summary"`
	SuitabilityScore        int               `json:"suitability_score"`
	WaterSecurity           string            `json:"water_security"`
	OperationDifficulty     string            `json:"operation_difficulty"`
	CropVersatility         string            `json:"crop_versatility"`
	InvestorSummary         string            `json:"investor_summary"`
	TotalCandidatesReviewed int               `json:"total_candidates_reviewed"`
	ValidListingsFound      int               `json:"valid_listings_found"`
	ListingsAnalysis        []AnalyzedListing `json:"listings_analysis"`
}
