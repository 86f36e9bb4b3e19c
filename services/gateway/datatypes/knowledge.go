// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// KnowledgeEntry is one section of the domain knowledge base injected into
// every chat prompt. Key is the domain identifier; the prompt builder renders
// the header as the uppercased key.
type KnowledgeEntry struct {
	Key  string
	Text string
}

// DomainKnowledge is the fixed knowledge base, rendered into prompts in this
// exact order. Loaded at process start, never mutated, so handlers may share
// it across requests without locking.
var DomainKnowledge = []KnowledgeEntry{
	{
		Key: "arima",
		Text: "ARIMA: AutoRegressive Integrated Moving Average, suitable for univariate time-series " +
			"with trend/seasonality after differencing. Steps: stationarity test (ADF), difference, " +
			"select p,d,q by AIC/ACF/PACF, fit, validate with rolling-window backtest.",
	},
	{
		Key: "ecommerce",
		Text: "E-commerce: SKU-level demand forecasting requires handling promotions, price elasticity, " +
			"and hierarchy. Use promo flags, calendar features, and hierarchical reconciliation.",
	},
	{
		Key: "stock",
		Text: "Stock prediction: price series are noisy; prefer signal-generation, risk-adjusted metrics, " +
			"technical indicators, volumes, sentiment, strict walk-forward validation.",
	},
	{
		Key: "realestate",
		Text: "Real estate: hedonic valuation uses location, area, bedrooms, age, amenities. Spatial " +
			"effects matter; include geospatial encodings and regional cross-validation.",
	},
	{
		Key: "supplychain",
		Text: "Supply chain: multi-echelon forecasting requires modeling lead-times, variability, " +
			"safety stock. Use probabilistic forecasts, scenario analysis, multi-period planning.",
	},
}
