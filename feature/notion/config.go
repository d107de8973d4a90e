package notion

// Config holds configuration for the record store.
type Config struct {
	// APIKey is the integration token.
	APIKey string `mapstructure:"api_key" default:""`
	// BaseURL is the REST API root.
	BaseURL string `mapstructure:"base_url" default:"https://api.notion.com/v1"`
	// Version is sent as the Notion-Version header.
	Version string `mapstructure:"version" default:"2022-06-28"`
	// DatabaseID is the listing database.
	DatabaseID string `mapstructure:"database_id" default:""`
	// ParentPageID is the page new databases are created under.
	ParentPageID string `mapstructure:"parent_page_id" default:""`
	// DatabaseTitle is the title given to a newly created database.
	DatabaseTitle string `mapstructure:"database_title" default:"Car Listings"`
	// RequestsPerSecond paces requests; the API allows about three.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"3"`
	// Concurrency bounds parallel page mutations.
	Concurrency int `mapstructure:"concurrency" default:"3"`
	// MaxRetries bounds retries of throttled or failed requests.
	MaxRetries int `mapstructure:"max_retries" default:"5"`
	// TimeoutSeconds bounds a single request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
