package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/vontajamal/sentinel-eye/internal/sentinelerr"
)

// DefaultRelativePath is the config location resolved under the process
// working directory when no explicit path is supplied.
const DefaultRelativePath = ".seven-shadow/sentinel-eye.json"

// Source identifies where a loaded config came from, echoed in the
// GET /api/v1/dashboard/config response.
type Source string

const (
	SourceFile    Source = "file"
	SourceDefault Source = "default"
)

// Loaded bundles a validated config with its resolution metadata.
type Loaded struct {
	Config *Config
	Path   string
	Source Source
}

// Load resolves a config from an explicit path, or from the default
// path under cwd when explicitPath is empty. An absent default path
// returns the built-in default; an absent explicit path is fatal.
func Load(explicitPath string) (*Loaded, error) {
	path := explicitPath
	usingDefault := false
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, sentinelerr.New(sentinelerr.ConfigRead, "resolve working directory: %v", err)
		}
		path = filepath.Join(cwd, DefaultRelativePath)
		usingDefault = true
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if usingDefault {
				return &Loaded{Config: Default(), Path: path, Source: SourceDefault}, nil
			}
			return nil, sentinelerr.New(sentinelerr.ConfigNotFound, "config file not found: %s", path)
		}
		return nil, sentinelerr.New(sentinelerr.ConfigRead, "stat config file %s: %v", path, err)
	}

	cfg, err := parseFile(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return &Loaded{Config: cfg, Path: path, Source: SourceFile}, nil
}

func parseFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return nil, sentinelerr.New(sentinelerr.ConfigNotFound, "config file not found: %s", path)
		}
		return nil, sentinelerr.New(sentinelerr.ConfigInvalidJSON, "parse config %s: %v", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, sentinelerr.New(sentinelerr.ConfigInvalidJSON, "decode config %s: %v", path, err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("version", def.Version)
	v.SetDefault("inbox.requireNotificationsScope", def.Inbox.RequireNotificationsScope)
	v.SetDefault("inbox.includeReadByDefault", def.Inbox.IncludeReadByDefault)
	v.SetDefault("limits.maxNotifications", def.Limits.MaxNotifications)
	v.SetDefault("limits.maxPullRequests", def.Limits.MaxPullRequests)
	v.SetDefault("limits.maxFilesPerPullRequest", def.Limits.MaxFilesPerPullRequest)
	v.SetDefault("limits.maxFailureRunsPerPullRequest", def.Limits.MaxFailureRunsPerPullRequest)
	v.SetDefault("limits.maxLogBytesPerJob", def.Limits.MaxLogBytesPerJob)
	v.SetDefault("limits.maxDigestItems", def.Limits.MaxDigestItems)
	v.SetDefault("patterns.minClusterSize", def.Patterns.MinClusterSize)
	v.SetDefault("patterns.pathDepth", def.Patterns.PathDepth)
	v.SetDefault("patterns.maxTitleTokens", def.Patterns.MaxTitleTokens)
	v.SetDefault("patterns.minTitleTokenLength", def.Patterns.MinTitleTokenLength)
	v.SetDefault("scoring.caps.failingRuns", def.Scoring.Caps.FailingRuns)
	v.SetDefault("scoring.caps.unresolvedComments", def.Scoring.Caps.UnresolvedComments)
	v.SetDefault("scoring.caps.changedFiles", def.Scoring.Caps.ChangedFiles)
	v.SetDefault("scoring.caps.linesChanged", def.Scoring.Caps.LinesChanged)
	v.SetDefault("scoring.caps.duplicatePeers", def.Scoring.Caps.DuplicatePeers)
	v.SetDefault("scoring.weights.failingRuns", def.Scoring.Weights.FailingRuns)
	v.SetDefault("scoring.weights.unresolvedComments", def.Scoring.Weights.UnresolvedComments)
	v.SetDefault("scoring.weights.changedFiles", def.Scoring.Weights.ChangedFiles)
	v.SetDefault("scoring.weights.linesChanged", def.Scoring.Weights.LinesChanged)
	v.SetDefault("scoring.weights.duplicatePeers", def.Scoring.Weights.DuplicatePeers)
}

var structValidator = validator.New()

// Validate runs struct-tag validation for the ranges the schema
// expresses directly, accumulating field-path issues.
func Validate(cfg *Config) error {
	if err := structValidator.Struct(cfg); err != nil {
		issues := []string{}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				issues = append(issues, fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag()))
			}
		} else {
			issues = append(issues, err.Error())
		}
		return sentinelerr.New(sentinelerr.ConfigInvalid, "invalid config: %v", issues).WithDetails(map[string]interface{}{
			"issues": issues,
		})
	}
	return nil
}
