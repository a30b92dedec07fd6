package model

import "time"

// OHLCV represents a single daily bar.
type OHLCV struct {
	Time     time.Time `json:"time"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adj_close"`
	Volume   float64   `json:"volume"`
}

// Scrip is a tradable symbol together with its company name.
type Scrip struct {
	Ticker string
	Name   string
}
