package weather

import (
	"encoding/json"
	"io"
)

// Raw WeatherAPI.com payload shapes. Required sub-objects are pointers so a
// truncated payload is detected during decode instead of silently producing a
// zeroed record.

type rawCondition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

type rawCurrent struct {
	TempC      float64      `json:"temp_c"`
	TempF      float64      `json:"temp_f"`
	Condition  rawCondition `json:"condition"`
	Humidity   int          `json:"humidity"`
	WindKph    float64      `json:"wind_kph"`
	WindMph    float64      `json:"wind_mph"`
	FeelsLikeC float64      `json:"feelslike_c"`
	FeelsLikeF float64      `json:"feelslike_f"`
}

type rawDay struct {
	MaxTempC  float64      `json:"maxtemp_c"`
	MaxTempF  float64      `json:"maxtemp_f"`
	MinTempC  float64      `json:"mintemp_c"`
	MinTempF  float64      `json:"mintemp_f"`
	Condition rawCondition `json:"condition"`
}

type rawForecastDay struct {
	Date string `json:"date"`
	Day  rawDay `json:"day"`
}

type rawLocation struct {
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type forecastResponse struct {
	Location *rawLocation `json:"location"`
	Current  *rawCurrent  `json:"current"`
	Forecast *struct {
		ForecastDay []rawForecastDay `json:"forecastday"`
	} `json:"forecast"`
}

type searchResult struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// errorEnvelope is the provider's error payload on non-2xx responses.
type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// decodeForecast normalizes a forecast.json body into Data. Location, current
// and forecast are all required in a forecast response; a missing one yields a
// ParseError naming the field.
func decodeForecast(body io.Reader) (*Data, error) {
	var raw forecastResponse
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, &ParseError{Err: err}
	}

	switch {
	case raw.Location == nil:
		return nil, &ParseError{Field: "location"}
	case raw.Current == nil:
		return nil, &ParseError{Field: "current"}
	case raw.Forecast == nil:
		return nil, &ParseError{Field: "forecast"}
	}

	data := &Data{
		Current: &CurrentWeather{
			TempC:      raw.Current.TempC,
			TempF:      raw.Current.TempF,
			Condition:  Condition(raw.Current.Condition),
			Humidity:   raw.Current.Humidity,
			WindKph:    raw.Current.WindKph,
			WindMph:    raw.Current.WindMph,
			FeelsLikeC: raw.Current.FeelsLikeC,
			FeelsLikeF: raw.Current.FeelsLikeF,
		},
		Location: &LocationInfo{
			Name:    raw.Location.Name,
			Region:  raw.Location.Region,
			Country: raw.Location.Country,
			Lat:     raw.Location.Lat,
			Lon:     raw.Location.Lon,
		},
		Forecast: make([]ForecastDay, 0, len(raw.Forecast.ForecastDay)),
	}

	for _, fd := range raw.Forecast.ForecastDay {
		data.Forecast = append(data.Forecast, ForecastDay{
			Date: fd.Date,
			Day: DaySummary{
				MaxTempC:  fd.Day.MaxTempC,
				MaxTempF:  fd.Day.MaxTempF,
				MinTempC:  fd.Day.MinTempC,
				MinTempF:  fd.Day.MinTempF,
				Condition: Condition(fd.Day.Condition),
			},
		})
	}

	return data, nil
}

// decodeSuggestions normalizes a search.json body. DisplayName is the
// "Name, Region, Country" label shown in the autocomplete list.
func decodeSuggestions(body io.Reader) ([]LocationSuggestion, error) {
	var raw []searchResult
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, &ParseError{Err: err}
	}

	suggestions := make([]LocationSuggestion, 0, len(raw))
	for _, item := range raw {
		suggestions = append(suggestions, LocationSuggestion{
			ID:          item.ID,
			Name:        item.Name,
			Region:      item.Region,
			Country:     item.Country,
			Lat:         item.Lat,
			Lon:         item.Lon,
			DisplayName: item.Name + ", " + item.Region + ", " + item.Country,
		})
	}

	return suggestions, nil
}
