// Copyright 2025 GitPulse, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

// Config represents the complete configuration for gitpulse. It consolidates
// settings from the config file, environment variables, and built-in defaults
// into a single structure the rest of the application reads from.
type Config struct {
	GitHub       GitHubConfig          `yaml:"github"`
	Defaults     DefaultsConfig        `yaml:"defaults"`
	Repositories map[string]RepoConfig `yaml:"repositories"`
}

// GitHubConfig contains GitHub-specific settings. The GraphQL endpoint can
// point at a GitHub Enterprise deployment, and TokenEnv names the environment
// variable consulted for authentication when no --token flag is given.
type GitHubConfig struct {
	GraphQLEndpoint string `yaml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env"`
}

// DefaultsConfig contains default settings that apply to every fetch unless
// overridden by repository-specific settings or command-line flags.
type DefaultsConfig struct {
	PageSize     int    `yaml:"page_size"`
	OutputFormat string `yaml:"output_format"`
	StateDir     string `yaml:"state_dir"`
}

// RepoConfig contains repository-specific overrides. A lower page size can
// help with repositories whose items carry unusually large payloads.
type RepoConfig struct {
	PageSize int `yaml:"page_size"`
}

// DefaultConfig returns a Config with defaults suitable for public
// GitHub.com usage. Enterprise deployments override the endpoint and token
// variable through a config file.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
		},
		Defaults: DefaultsConfig{
			PageSize:     100,
			OutputFormat: "table",
			StateDir:     "~/.gitpulse/state",
		},
		Repositories: make(map[string]RepoConfig),
	}
}
