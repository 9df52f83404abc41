package api

import (
	"context"
	"fmt"
	"net/url"
)

type Weather struct {
	Location    string  `json:"location"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feelsLike"`
	Condition   string  `json:"condition"`
	Icon        string  `json:"icon"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
}

type ForecastDay struct {
	Date      string  `json:"date"`
	Condition string  `json:"condition"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
}

// CurrentWeather fetches conditions for the given coordinates.
func (c *Client) CurrentWeather(ctx context.Context, lat, lon float64) (*Weather, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.4f", lat))
	q.Set("lon", fmt.Sprintf("%.4f", lon))
	var w Weather
	if err := c.doJSON(ctx, "GET", "/api/weather/current", q, nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// Forecast fetches the multi-day outlook.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) ([]ForecastDay, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.4f", lat))
	q.Set("lon", fmt.Sprintf("%.4f", lon))
	var resp struct {
		Days []ForecastDay `json:"days"`
	}
	if err := c.doJSON(ctx, "GET", "/api/weather/forecast", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Days, nil
}
