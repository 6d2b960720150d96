package config

// Series describes a single mirrored series: where the statuses come
// from, where the links are posted, and how the collection is titled.
type Series struct {
	Handle      string `yaml:"handle"`
	DisplayName string `yaml:"name"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Subreddit   string `yaml:"subreddit"`
	Table       string `yaml:"table"`
}
