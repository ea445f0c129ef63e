package types

type Station struct {
	ID      int    `json:"ID"`
	Station string `json:"Station"`
	Name    string `json:"Name"`
}

// Precipitation is one measurement row; a missing reading stays null.
type Precipitation struct {
	Date          string   `json:"Date"`
	Precipitation *float64 `json:"Precipitation"`
}

type TemperatureObservation struct {
	Date string  `json:"Date"`
	Tobs float64 `json:"tobs"`
}

// TemperatureStats aggregates tobs over a date range. Station is the station
// that recorded the range maximum.
type TemperatureStats struct {
	Min     float64 `json:"Min"`
	Max     float64 `json:"Max"`
	Avg     float64 `json:"Avg"`
	Station string  `json:"Station"`
}
