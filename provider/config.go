package provider

// Backend names accepted by Config.Backend.
const (
	BackendOllama = "ollama"
	BackendOpenAI = "openai"
)

// Config holds provider initialization parameters.
type Config struct {
	Backend     string  `json:"backend,omitempty" mapstructure:"backend"`
	Model       string  `json:"model,omitempty" mapstructure:"model"`
	APIKey      string  `json:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL     string  `json:"base_url,omitempty" mapstructure:"base_url"`
	Temperature float64 `json:"temperature,omitempty" mapstructure:"temperature"`
}

// DefaultConfig returns the default provider configuration: a local Ollama
// endpoint serving llama3.2:3b.
func DefaultConfig() Config {
	return Config{
		Backend:     BackendOllama,
		Model:       "llama3.2:3b",
		BaseURL:     "http://localhost:11434/v1",
		Temperature: 0.7,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Backend != "" {
		c.Backend = source.Backend
	}
	if source.Model != "" {
		c.Model = source.Model
	}
	if source.APIKey != "" {
		c.APIKey = source.APIKey
	}
	if source.BaseURL != "" {
		c.BaseURL = source.BaseURL
	}
	if source.Temperature > 0 {
		c.Temperature = source.Temperature
	}
}

// baseURL resolves the endpoint: an explicit BaseURL wins, otherwise the
// backend's well-known default.
func (c *Config) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if c.Backend == BackendOpenAI {
		return "https://api.openai.com/v1"
	}
	return "http://localhost:11434/v1"
}

// apiKey resolves the credential; Ollama ignores it but the client wants
// one, so a placeholder is used.
func (c *Config) apiKey() string {
	if c.Backend == BackendOpenAI {
		return c.APIKey
	}
	if c.APIKey != "" {
		return c.APIKey
	}
	return "ollama"
}
