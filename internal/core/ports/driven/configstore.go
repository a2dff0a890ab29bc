package driven

// ConfigStore gives the client access to its persisted settings, keyed by
// dot-notation names such as "api.base_url" or "chat.default_llm".
// Implementations own persistence and type conversion.
type ConfigStore interface {
	// Get returns the raw value for key and whether the key exists.
	Get(key string) (any, bool)

	// GetString returns the value for key, or "" when the key is
	// missing or not a string.
	GetString(key string) string

	// GetInt returns the value for key, or 0 when the key is missing
	// or not an integer.
	GetInt(key string) int

	// GetFloat returns the value for key, or 0 when the key is missing
	// or not numeric.
	GetFloat(key string) float64

	// GetBool returns the value for key, or false when the key is
	// missing or not a boolean.
	GetBool(key string) bool

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the backing file path, for display to the user.
	Path() string
}
