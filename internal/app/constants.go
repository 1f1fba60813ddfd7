package app

const (
	Name           = "pawvault"
	ConfigFilename = "config.json"
	DBFilename     = "settings.db"
	LogFilename    = "pawvault.log"
)
