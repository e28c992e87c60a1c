// Package config loads, validates, writes, and hot-reloads the
// sentinel-eye configuration file, loaded with viper and checked with
// struct-tag validation.
package config

// Config is the full schema recognized under .seven-shadow/sentinel-eye.json.
type Config struct {
	Version  int            `json:"version" mapstructure:"version" validate:"eq=1"`
	Inbox    InboxConfig    `json:"inbox" mapstructure:"inbox" validate:"required"`
	Limits   LimitsConfig   `json:"limits" mapstructure:"limits" validate:"required"`
	Patterns PatternsConfig `json:"patterns" mapstructure:"patterns" validate:"required"`
	Scoring  ScoringConfig  `json:"scoring" mapstructure:"scoring" validate:"required"`
}

type InboxConfig struct {
	RequireNotificationsScope bool `json:"requireNotificationsScope" mapstructure:"requireNotificationsScope"`
	IncludeReadByDefault      bool `json:"includeReadByDefault" mapstructure:"includeReadByDefault"`
}

type LimitsConfig struct {
	MaxNotifications           int `json:"maxNotifications" mapstructure:"maxNotifications" validate:"min=1,max=500"`
	MaxPullRequests            int `json:"maxPullRequests" mapstructure:"maxPullRequests" validate:"min=1,max=500"`
	MaxFilesPerPullRequest     int `json:"maxFilesPerPullRequest" mapstructure:"maxFilesPerPullRequest" validate:"min=1,max=2000"`
	MaxFailureRunsPerPullRequest int `json:"maxFailureRunsPerPullRequest" mapstructure:"maxFailureRunsPerPullRequest" validate:"min=1,max=50"`
	MaxLogBytesPerJob          int `json:"maxLogBytesPerJob" mapstructure:"maxLogBytesPerJob" validate:"min=1024,max=20000000"`
	MaxDigestItems             int `json:"maxDigestItems" mapstructure:"maxDigestItems" validate:"min=1,max=100"`
}

type PatternsConfig struct {
	MinClusterSize      int `json:"minClusterSize" mapstructure:"minClusterSize" validate:"min=2,max=50"`
	PathDepth           int `json:"pathDepth" mapstructure:"pathDepth" validate:"min=1,max=6"`
	MaxTitleTokens      int `json:"maxTitleTokens" mapstructure:"maxTitleTokens" validate:"min=1,max=12"`
	MinTitleTokenLength int `json:"minTitleTokenLength" mapstructure:"minTitleTokenLength" validate:"min=1,max=20"`
}

type ScoringConfig struct {
	Caps    ScoringCaps    `json:"caps" mapstructure:"caps" validate:"required"`
	Weights ScoringWeights `json:"weights" mapstructure:"weights" validate:"required"`
}

type ScoringCaps struct {
	FailingRuns        int `json:"failingRuns" mapstructure:"failingRuns" validate:"min=1,max=100"`
	UnresolvedComments int `json:"unresolvedComments" mapstructure:"unresolvedComments" validate:"min=1,max=200"`
	ChangedFiles       int `json:"changedFiles" mapstructure:"changedFiles" validate:"min=1,max=5000"`
	LinesChanged       int `json:"linesChanged" mapstructure:"linesChanged" validate:"min=1,max=200000"`
	DuplicatePeers     int `json:"duplicatePeers" mapstructure:"duplicatePeers" validate:"min=1,max=200"`
}

type ScoringWeights struct {
	FailingRuns        float64 `json:"failingRuns" mapstructure:"failingRuns" validate:"min=0,max=100"`
	UnresolvedComments float64 `json:"unresolvedComments" mapstructure:"unresolvedComments" validate:"min=0,max=100"`
	ChangedFiles       float64 `json:"changedFiles" mapstructure:"changedFiles" validate:"min=0,max=100"`
	LinesChanged       float64 `json:"linesChanged" mapstructure:"linesChanged" validate:"min=0,max=100"`
	DuplicatePeers     float64 `json:"duplicatePeers" mapstructure:"duplicatePeers" validate:"min=0,max=100"`
}

// Default returns the built-in default configuration returned by the
// loader when the default path is absent.
func Default() *Config {
	return &Config{
		Version: 1,
		Inbox: InboxConfig{
			RequireNotificationsScope: false,
			IncludeReadByDefault:      false,
		},
		Limits: LimitsConfig{
			MaxNotifications:             200,
			MaxPullRequests:              100,
			MaxFilesPerPullRequest:       500,
			MaxFailureRunsPerPullRequest: 10,
			MaxLogBytesPerJob:            2_000_000,
			MaxDigestItems:               20,
		},
		Patterns: PatternsConfig{
			MinClusterSize:      2,
			PathDepth:           2,
			MaxTitleTokens:      6,
			MinTitleTokenLength: 3,
		},
		Scoring: ScoringConfig{
			Caps: ScoringCaps{
				FailingRuns:        10,
				UnresolvedComments: 20,
				ChangedFiles:       50,
				LinesChanged:       2000,
				DuplicatePeers:     10,
			},
			Weights: ScoringWeights{
				FailingRuns:        35,
				UnresolvedComments: 25,
				ChangedFiles:       15,
				LinesChanged:       10,
				DuplicatePeers:     15,
			},
		},
	}
}
