package models

// Config is the flat application configuration, stored as a single JSON
// document in the user's config directory.
type Config struct {
	DefaultAuthor    string              `json:"default_author"`
	CurrentProject   string              `json:"current_project,omitempty"`
	AutoTags         map[string][]string `json:"auto_tags"`
	ShowTagsInList   bool                `json:"show_tags_in_list"`
	ShowDueInList    bool                `json:"show_due_in_list"`
	MaxDescription   int                 `json:"max_description_length"`
	DefaultListLimit int                 `json:"default_list_limit"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		DefaultAuthor: "unknown",
		AutoTags: map[string][]string{
			"bug":     {"urgent", "bug"},
			"feature": {"feature"},
			"meeting": {"meeting"},
			"review":  {"review", "code"},
			"docs":    {"documentation"},
		},
		ShowTagsInList:   true,
		ShowDueInList:    true,
		MaxDescription:   50,
		DefaultListLimit: 20,
	}
}
