package weather

// Condition is a human-readable weather condition plus the provider's icon URL.
type Condition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

// CurrentWeather is a point-in-time reading. Both unit systems are always
// populated so clients never convert.
type CurrentWeather struct {
	TempC      float64   `json:"temp_c"`
	TempF      float64   `json:"temp_f"`
	Condition  Condition `json:"condition"`
	Humidity   int       `json:"humidity"`
	WindKph    float64   `json:"wind_kph"`
	WindMph    float64   `json:"wind_mph"`
	FeelsLikeC float64   `json:"feelslike_c"`
	FeelsLikeF float64   `json:"feelslike_f"`
}

// DaySummary aggregates one forecast day.
type DaySummary struct {
	MaxTempC  float64   `json:"maxtemp_c"`
	MaxTempF  float64   `json:"maxtemp_f"`
	MinTempC  float64   `json:"mintemp_c"`
	MinTempF  float64   `json:"mintemp_f"`
	Condition Condition `json:"condition"`
}

// ForecastDay is one entry of the multi-day forecast. Date is a calendar date
// (YYYY-MM-DD, no time component); entries are ordered ascending by date and
// the provider guarantees at most one entry per date.
type ForecastDay struct {
	Date string     `json:"date"`
	Day  DaySummary `json:"day"`
}

// LocationInfo is an immutable snapshot of a resolved place.
type LocationInfo struct {
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Data is the normalized bundle returned by a fetch. Every field is optional:
// a partial upstream response must never crash rendering, and a bundle with
// neither current nor forecast means "no usable weather for this query".
type Data struct {
	Current  *CurrentWeather `json:"current,omitempty"`
	Forecast []ForecastDay   `json:"forecast,omitempty"`
	Location *LocationInfo   `json:"location,omitempty"`
}

// LocationSuggestion is an autocomplete candidate. Ephemeral: it lives only in
// the suggestion controller's in-memory state and is never persisted.
type LocationSuggestion struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Region      string  `json:"region"`
	Country     string  `json:"country"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"displayName"`
}

// Video is a best-effort travel video suggestion for a location.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Thumbnail    string `json:"thumbnail"`
	ChannelTitle string `json:"channelTitle"`
}
