package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/clinscribe/data/db/runs.db"
	}
	if cfg.Storage.BleveIndexPath == "" {
		cfg.Storage.BleveIndexPath = "/usr/local/var/clinscribe/data/indices/bleve"
	}
	if cfg.Storage.ExportDir == "" {
		cfg.Storage.ExportDir = "/usr/local/var/clinscribe/data/exports"
	}
	if cfg.Pipeline.EntityCap == 0 {
		cfg.Pipeline.EntityCap = 20
	}
	if cfg.Pipeline.EntityConfidence == 0 {
		cfg.Pipeline.EntityConfidence = 0.85
	}
	if cfg.Pipeline.MaxKeywords == 0 {
		cfg.Pipeline.MaxKeywords = 15
	}
	if cfg.Pipeline.SentimentThreshold == 0 {
		cfg.Pipeline.SentimentThreshold = 0.7
	}
	if cfg.Sentiment.MaxTokens == 0 {
		cfg.Sentiment.MaxTokens = 256
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".txt", ".md", ".pdf", ".docx", ".xlsx"}
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}
