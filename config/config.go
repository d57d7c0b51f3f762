package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyJiraURL      = "jira.url"
	KeyJiraEmail    = "jira.email"
	KeyJiraAPIToken = "jira.api_token"
	KeyReaURL       = "rea.url"
	KeyReaUsername  = "rea.username"
	KeyReaPassword  = "rea.password"
	KeyReaUserID    = "rea.user_id"
	KeyReaProjectID = "rea.project_id"
)

type Config struct {
	Jira JiraConfig `mapstructure:"jira" validate:"required"`
	Rea  ReaConfig  `mapstructure:"rea" validate:"required"`
}

type JiraConfig struct {
	URL      string `mapstructure:"url" validate:"required,url"`
	Email    string `mapstructure:"email"`
	APIToken string `mapstructure:"api_token"`
}

type ReaConfig struct {
	URL      string `mapstructure:"url" validate:"required,url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	// UserID and ProjectID are remembered defaults; both can be overridden
	// per command and UserID is resolved from the portal profile when empty.
	UserID    string `mapstructure:"user_id"`
	ProjectID string `mapstructure:"project_id"`
}

// SetDefaults sets default values if not provided.
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it.
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# jirahour configuration
jira:
  url: "https://your-site.atlassian.net"
  email: ""
  # Prefer the JIRAHOUR_JIRA_API_TOKEN environment variable over storing
  # the token here.
  api_token: ""

rea:
  url: "https://portalapi.reatech.uk"
  username: ""
  password: ""
  user_id: ""
  project_id: ""
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	cfg.Jira.Email = strings.TrimSpace(cfg.Jira.Email)
	cfg.Rea.Username = strings.TrimSpace(cfg.Rea.Username)
	cfg.Rea.UserID = strings.TrimSpace(cfg.Rea.UserID)
	cfg.Rea.ProjectID = strings.TrimSpace(cfg.Rea.ProjectID)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyJiraURL, "https://your-site.atlassian.net")
	v.SetDefault(KeyReaURL, "https://portalapi.reatech.uk")
}
