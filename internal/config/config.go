package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ghodss/yaml"
	validator "gopkg.in/go-playground/validator.v9"
)

const (
	// ConfigPathEnv overrides the predefined config file locations.
	ConfigPathEnv = "GH_PROJECT_CREATEREPO_CONFIG"
	// TokenEnv supplies the GitHub API token when it is not in the file.
	TokenEnv = "GH_PROJECT_CREATEREPO_TOKEN"

	// DefaultAssetPattern matches any RPM asset whose file name contains
	// the resolved release version.
	DefaultAssetPattern = `.*{latest_version}.*\.rpm`

	// DefaultApiUrl is the public GitHub REST endpoint.
	DefaultApiUrl = "https://api.github.com"

	defaultKeepCount = 3
)

type Config struct {
	BasePath string    `json:"basePath" validate:"required"`
	Projects []Project `json:"projects" validate:"dive"`

	// LogDestination is resolved once at startup, never inferred from the
	// parent process. logFile is required when it is "file".
	LogDestination string `json:"logDestination" validate:"omitempty,oneof=stderr systemJournal file"`
	LogFile        string `json:"logFile"`

	CreaterepoCommand string `json:"createrepoCommand"` // createrepo_c
	GithubApiUrl      string `json:"githubApiUrl"`      // https://api.github.com
	GithubToken       string `json:"githubToken"`
	WebhookUrl        string `json:"webhookUrl"`
	HistoryPath       string `json:"historyPath"` // empty disables run history
}

type Project struct {
	Owner      string `json:"owner" validate:"required"`      // mydumper
	Name       string `json:"name" validate:"required"`       // mydumper
	TargetPath string `json:"targetPath" validate:"required"` // mydumper/el/8

	// AssetPattern is matched against the complete asset file name after
	// every {latest_version} token has been substituted.
	AssetPattern string `json:"assetPattern"`

	// KeepCount is how many artifacts survive pruning. Retention is
	// directory wide: projects sharing a targetPath prune each other's
	// artifacts. targetPath uniqueness is not enforced here.
	KeepCount *int `json:"keepCount" validate:"omitempty,gte=0"`
}

// ConfigError reports an unusable configuration document.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return "config: " + e.Err.Error()
	}
	return "config " + e.Path + ": " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Slug identifies the project in logs and history rows.
func (p Project) Slug() string {
	return p.Owner + "/" + p.Name
}

// Dir is the absolute target directory for the project's artifacts.
func (p Project) Dir(basePath string) string {
	return filepath.Join(basePath, p.TargetPath)
}

// Keep returns the effective retention count.
func (p Project) Keep() int {
	if p.KeepCount == nil {
		return defaultKeepCount
	}
	return *p.KeepCount
}

// LoadConfig loads the configuration from path. An empty path falls back to
// GH_PROJECT_CREATEREPO_CONFIG and then the predefined locations.
func LoadConfig(path string) (config Config, err error) {
	if path != "" {
		var raw []byte
		raw, err = os.ReadFile(path)
		if err != nil {
			err = &ConfigError{Path: path, Err: err}
			return
		}
		return parse(path, raw)
	}

	configPaths := []string{
		"/etc/github-project-createrepo/config.yml",
		"./config.yml",
	}
	if env := os.Getenv(ConfigPathEnv); env != "" {
		configPaths = append([]string{env}, configPaths...)
	}
	for _, p := range configPaths {
		var raw []byte
		raw, err = os.ReadFile(p)
		if err == nil {
			log.Println("load config from :", p)
			return parse(p, raw)
		}
	}
	err = &ConfigError{Err: err}
	return
}

func parse(path string, raw []byte) (config Config, err error) {
	if err = yaml.Unmarshal(raw, &config); err != nil {
		err = &ConfigError{Path: path, Err: err}
		return
	}
	applyDefaults(&config)

	validate := validator.New()
	if err = validate.Struct(config); err != nil {
		err = &ConfigError{Path: path, Err: err}
		return
	}
	if config.LogDestination == "file" && config.LogFile == "" {
		err = &ConfigError{Path: path, Err: errors.New("logFile is required when logDestination is file")}
		return
	}

	// basePath must pre-exist; creating it is the operator's job.
	info, statErr := os.Stat(config.BasePath)
	if statErr != nil {
		err = &ConfigError{Path: path, Err: statErr}
		return
	}
	if !info.IsDir() {
		err = &ConfigError{Path: path, Err: fmt.Errorf("basePath %s is not a directory", config.BasePath)}
		return
	}
	return
}

func applyDefaults(config *Config) {
	if config.LogDestination == "" {
		config.LogDestination = "stderr"
	}
	if config.CreaterepoCommand == "" {
		config.CreaterepoCommand = "createrepo_c"
	}
	if config.GithubApiUrl == "" {
		config.GithubApiUrl = DefaultApiUrl
	}
	if config.GithubToken == "" {
		config.GithubToken = os.Getenv(TokenEnv)
	}
	for i := range config.Projects {
		if config.Projects[i].AssetPattern == "" {
			config.Projects[i].AssetPattern = DefaultAssetPattern
		}
		if config.Projects[i].KeepCount == nil {
			n := defaultKeepCount
			config.Projects[i].KeepCount = &n
		}
	}
}
