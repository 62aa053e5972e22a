package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	SourcesDir        string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Core defaults, overridable per source
	SimilarityAlgorithm string
	SimilarityThreshold float64

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
