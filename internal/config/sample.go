package config

// SampleConfig returns a fully commented configuration file
func SampleConfig() string {
	return `# NasaLens configuration
version: "1.0"

# NASA Image and Video Library API
catalog:
  base_url: "https://images-api.nasa.gov/"
  media_type: "image"          # image | video | audio
  timeout: 30s                 # per request, 0 disables
  requests_per_second: 5       # client-side pacing, 0 disables
  burst: 2
  user_agent: "nasalens"

search:
  default_query: "earth"       # searched on startup
  intent_buffer: 64            # pending user actions before the oldest is dropped
  pages: 1                     # pages fetched by "nasalens search"

display:
  theme: "default"             # default | high-contrast | minimal | mono
  language: ""                 # en | de | tr, empty uses $LANG
  time_zone: ""                # e.g. Europe/Istanbul, empty uses the local zone
  date_layout: "January 02, 2006"
  output_format: "text"        # text | json | csv | markdown
  no_color: false
  no_emoji: false

log:
  file: "~/.cache/nasalens/nasalens.log"
  verbose: false

metrics:
  listen_addr: ""              # e.g. localhost:9464, empty disables /metrics
`
}

// MinimalSampleConfig returns a compact configuration with essential settings
func MinimalSampleConfig() string {
	return `version: "1.0"
search:
  default_query: "earth"
display:
  theme: "default"
`
}
