package cfg

type Cfg struct {
	// Application configuration
	Port            string
	BaseUrl         string
	SiteFile        string
	DBPath          string
	WorkerCount     int
	RefreshInterval int
	APIAccessKey    string

	// Application metadata
	UserAgent       string
	DefaultTimezone string
	Debug           bool
	Version         string
}
