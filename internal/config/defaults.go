package config

// DefaultSubjectColumns are the two label columns every parliamentary record carries.
var DefaultSubjectColumns = []string{"Subject-1", "Subject-2"}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Artifacts.VocabularyPath == "" {
		cfg.Artifacts.VocabularyPath = "../resources/parliament/vocabulary.json"
	}
	if cfg.Artifacts.DatasetPath == "" {
		cfg.Artifacts.DatasetPath = "../resources/parliament/data.csv"
	}
	if cfg.Pipeline.Column == "" {
		cfg.Pipeline.Column = "Lemma"
	}
	if cfg.Pipeline.Subject == "" {
		cfg.Pipeline.Subject = "Environment"
	}
	if len(cfg.Pipeline.SubjectColumns) == 0 {
		cfg.Pipeline.SubjectColumns = append([]string(nil), DefaultSubjectColumns...)
	}
	if cfg.Vectorizer.Norm == "" {
		cfg.Vectorizer.Norm = "l2"
	}
	if cfg.Cluster.Algorithm == "" {
		cfg.Cluster.Algorithm = "affinity"
	}
	if cfg.Cluster.Damping == 0 {
		cfg.Cluster.Damping = 0.5
	}
	if cfg.Cluster.ConvergenceIter == 0 {
		cfg.Cluster.ConvergenceIter = 15
	}
	if cfg.Cluster.MaxSamples == 0 {
		cfg.Cluster.MaxSamples = 5000
	}
	if cfg.Cluster.Clusters == 0 {
		cfg.Cluster.Clusters = 12
	}
	if cfg.Cluster.Tolerance == 0 {
		cfg.Cluster.Tolerance = 1e-4
	}
	if cfg.Cluster.MaxIter == 0 {
		cfg.Cluster.MaxIter = DefaultMaxIter(cfg.Cluster.Algorithm)
	}
}

// DefaultMaxIter returns the iteration cap for algorithm: 300 for k-means, 200 for
// affinity propagation.
func DefaultMaxIter(algorithm string) int {
	if algorithm == "kmeans" {
		return 300
	}
	return 200
}
