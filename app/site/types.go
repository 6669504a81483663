package site

// Config describes the event this instance serves: where the upstream
// manifests live and how exported calendar events identify themselves.
type Config struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	CanonicalURL string `yaml:"canonical_url"`

	// Calendar export identity
	CalendarHost string `yaml:"calendar_host"`
	ProdID       string `yaml:"prod_id"`

	// Upstream sources
	ScheduleManifestURL string `yaml:"schedule_manifest_url"`
	ProgramManifestURL  string `yaml:"program_manifest_url"`
	NewsFeedURL         string `yaml:"news_feed_url"`

	Settings Settings `yaml:"settings"`
}

type Settings struct {
	// News items fetched per refresh; 0 disables the news section.
	NewsMaxItems int `yaml:"news_max_items"`

	// Extract full article content for news items
	ExtractNewsContent bool `yaml:"extract_news_content"`
}
