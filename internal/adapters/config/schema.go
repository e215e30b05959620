package config

// Prclfile represents the structure of the prcl.yaml configuration file.
type Prclfile struct {
	Entry     string   `yaml:"entry"`
	Output    string   `yaml:"output"`
	Externals []string `yaml:"externals"`
	Watch     WatchDTO `yaml:"watch"`
	Cache     CacheDTO `yaml:"cache"`
}

// WatchDTO holds the watch mode settings.
type WatchDTO struct {
	Debounce string `yaml:"debounce"`
}

// CacheDTO holds the resolver cache settings.
type CacheDTO struct {
	ExistenceEntries int `yaml:"existence_entries"`
}
