package cfg

type Cfg struct {
	// Series configuration
	SettingsFile string
	DBPath       string
	Table        string

	// Retry configuration
	EmptyAttempts  int
	OutageAttempts int
	PollInterval   int
	OutageInterval int

	// Feed source configuration
	FeedBaseURL string
	FeedLimit   int

	// Imgur credentials
	ImgurClientID    string
	ImgurAccessToken string

	// Reddit credentials
	RedditClientID     string
	RedditClientSecret string
	RedditUsername     string
	RedditPassword     string

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
