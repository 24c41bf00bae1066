package entities

// Analysis modes. Libraries are held to stricter packaging expectations
// than applications in a few checks' evidence wording; the mode is also
// surfaced in reports.
const (
	ModeApplication = "application"
	ModeLibrary     = "library"
)

// ProjectConfig is the per-project configuration read from the
// [tool.dev-status] table of pyproject.toml. Missing or invalid values
// fall back to defaults rather than failing the analysis.
type ProjectConfig struct {
	Mode  string `toml:"mode"`
	UseAI bool   `toml:"use_ai"`
}

// DefaultProjectConfig returns the configuration used when a project has
// no [tool.dev-status] table.
func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{Mode: ModeApplication, UseAI: false}
}

// Settings is the process-level configuration, loaded from environment
// variables (after an optional .env file).
type Settings struct {
	VenvMode bool `env:"DEV_STATUS_VENV_MODE"`

	// README rater knobs.
	MinReadmeScore int    `env:"READMERATER_MIN_SCORE" envDefault:"70"`
	Strict         bool   `env:"READMERATER_STRICT" envDefault:"true"`
	FullRefresh    bool   `env:"READMERATER_FULL_REFRESH"`
	Model          string `env:"READMERATER_MODEL" envDefault:"openai/gpt-4o"`
	BaseURL        string `env:"READMERATER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`

	OpenRouterKey string `env:"OPENROUTER_API_KEY"`
	OpenAIKey     string `env:"OPENAI_API_KEY"`
}

// APIKey returns the configured LLM key, preferring OpenRouter.
func (s Settings) APIKey() string {
	if s.OpenRouterKey != "" {
		return s.OpenRouterKey
	}
	return s.OpenAIKey
}
