package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// GitHubSourceConfig defines where the code-activity snapshot is fetched from and the JSON path of every field
type GitHubSourceConfig struct {
	URL                    string `toml:"URL"`
	TimestampPath          string `toml:"TimestampPath"`
	CommitsPath            string `toml:"CommitsPath"`
	CommitAuthorsPath      string `toml:"CommitAuthorsPath"`
	MergedPullRequestsPath string `toml:"MergedPullRequestsPath"`
	PullRequestAuthorsPath string `toml:"PullRequestAuthorsPath"`
	ClosedIssuesPath       string `toml:"ClosedIssuesPath"`
	IssueParticipantsPath  string `toml:"IssueParticipantsPath"`
}

// NearSourceConfig defines where the ledger-activity snapshot is fetched from and the JSON path of every field
type NearSourceConfig struct {
	URL                    string `toml:"URL"`
	TimestampPath          string `toml:"TimestampPath"`
	TransactionsPath       string `toml:"TransactionsPath"`
	TransactionSendersPath string `toml:"TransactionSendersPath"`
	ContractCallsPath      string `toml:"ContractCallsPath"`
	ContractCallersPath    string `toml:"ContractCallersPath"`
}

// Config maps to the config.toml file for the snapshot agent
type Config struct {
	Name                   string             `toml:"Name"`
	QueryIntervalInSeconds uint32             `toml:"QueryIntervalInSeconds"`
	ReportEndpoint         string             `toml:"ReportEndpoint"`
	ReportTimeoutInSeconds uint32             `toml:"ReportTimeoutInSeconds"`
	GitHub                 GitHubSourceConfig `toml:"GitHub"`
	Near                   NearSourceConfig   `toml:"Near"`
}

// LoadConfig parses a TOML file into the Config struct
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	var cfg Config
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return &cfg, nil
}
