package encar

// Config holds configuration for the marketplace feed.
type Config struct {
	// SearchURL is the premium listing search endpoint.
	SearchURL string `mapstructure:"search_url" default:"http://api.encar.com/search/car/list/premium"`
	// DetailURL is the listing detail page, also serving insurance history.
	DetailURL string `mapstructure:"detail_url" default:"http://www.encar.com/dc/dc_cardetailview.do"`
	// PageSize is the number of listings requested per search page.
	PageSize int `mapstructure:"page_size" default:"100"`
	// DelayMillis is the minimum spacing between two requests.
	DelayMillis int `mapstructure:"delay_ms" default:"1000"`
	// Concurrency bounds parallel insurance lookups.
	Concurrency int `mapstructure:"concurrency" default:"4"`
	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"`
	// TimeoutSeconds bounds a single request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
