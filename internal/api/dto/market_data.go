package dto

// MarketDataProfile is the company profile returned by the market data API,
// trimmed to the fields we read.
type MarketDataProfile struct {
	Symbol            string  `json:"symbol"`
	CompanyName       string  `json:"companyName"`
	Price             float64 `json:"price"`
	Beta              float64 `json:"beta"`
	VolAvg            int64   `json:"volAvg"`
	MktCap            int64   `json:"mktCap"`
	LastDiv           float64 `json:"lastDiv"`
	Currency          string  `json:"currency"`
	Exchange          string  `json:"exchange"`
	ExchangeShortName string  `json:"exchangeShortName"`
	Industry          string  `json:"industry"`
	Sector            string  `json:"sector"`
	Website           string  `json:"website"`
	Description       string  `json:"description"`
	Country           string  `json:"country"`
	IsActivelyTrading bool    `json:"isActivelyTrading"`
}

// PriceRefreshResult summarizes one price refresh run.
type PriceRefreshResult struct {
	Total   int      `json:"total"`
	Updated int      `json:"updated"`
	Skipped []string `json:"skipped"`
	Failed  []string `json:"failed"`
}
