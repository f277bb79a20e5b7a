package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasks configuration file
# Values can be overridden by TASKS_* environment variables or CLI flags

# Base URL of the task service
service_url = "http://127.0.0.1:5000"

# Collection endpoint, joined onto service_url
collection_path = "/tasks/"

# Per-request timeout in seconds (0 disables)
request_timeout_seconds = 10

# Labels and category set: pt (Trabalho, Pessoal, Casa, Saúde, Finanças)
# or en (Work, Personal, Home, Health, Finance)
locale = "pt"

# Initial theme: light or dark (toggling is never saved)
theme = "light"

# Listen address for 'tasks web'
web_addr = "127.0.0.1:8080"

# Listen address and optional JSON store for 'tasks devserver'
dev_addr = "127.0.0.1:5000"
# dev_data_file = "dev-tasks.json"

# Log directory (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.tasks"

# Logging
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
