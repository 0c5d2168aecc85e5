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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gitpulsehq/gitpulse/internal/config"
	pulseerrors "github.com/gitpulsehq/gitpulse/internal/errors"
	"github.com/gitpulsehq/gitpulse/internal/fetch"
	"github.com/gitpulsehq/gitpulse/internal/github"
	"github.com/gitpulsehq/gitpulse/internal/metadata"
	"github.com/gitpulsehq/gitpulse/internal/output"
	"github.com/gitpulsehq/gitpulse/internal/rank"
	"github.com/gitpulsehq/gitpulse/internal/state"
	"github.com/gitpulsehq/gitpulse/pkg/version"
)

const (
	formatTable  = "table"
	formatNDJSON = "ndjson"
)

// fetchTimeout bounds a whole fetch run. Large repositories take many
// sequential page requests, so this is generous.
const fetchTimeout = 5 * time.Minute

// newGitHubClient builds the production GraphQL client. Tests swap this
// out to run the command against a scripted client.
var newGitHubClient = func(token, endpoint string) github.Client {
	return github.NewGraphQLClient(token, endpoint)
}

// fetchOptions carries the resolved flag values of one fetch invocation.
type fetchOptions struct {
	repoArg    string
	token      string
	state      string
	format     string
	outputFile string
	limit      int
	showStats  bool
	configPath string
}

func newFetchCommand(verbose *bool) *cobra.Command {
	opts := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch [<owner>/<repo>]",
		Short: "Fetch and rank the issues and pull requests of a repository",
		Long: `Fetch the issues and pull requests of a GitHub repository and print them
sorted by reaction score.

The repository is given in the format: <owner>/<repo>
For example: golang/go, kubernetes/kubernetes

When the repository argument is omitted, the repository of the previous
fetch is reused from the saved session.

Authentication is optional. Public repositories work anonymously, but a
token raises the API rate limits considerably:
  - Use --token to provide a token directly
  - Or set the environment variable named by the config (GITHUB_TOKEN
    by default)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.repoArg = args[0]
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
			defer cancel()

			return runFetch(ctx, newLogger(*verbose), *opts)
		},
	}

	cmd.Flags().StringVar(&opts.token, "token", "", "GitHub personal access token (overrides the configured token variable)")
	cmd.Flags().StringVar(&opts.state, "state", "all", "Item states to include: open, closed, or all")
	cmd.Flags().StringVar(&opts.format, "format", formatTable, "Output format: table or ndjson")
	cmd.Flags().StringVar(&opts.outputFile, "output", "", "Output file path (default: stdout)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Limit output to the top N items (0 shows everything)")
	cmd.Flags().BoolVar(&opts.showStats, "stats", false, "Print fetch statistics to stderr after the results")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Config file path (default: .gitpulse.yaml or ~/.gitpulse/config.yaml)")

	return cmd
}

// runFetch executes the fetch command end to end: resolve inputs, fetch
// every matching item, rank them, write the output, and record the run in
// the state directory.
func runFetch(ctx context.Context, logger zerolog.Logger, opts fetchOptions) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	repoArg := opts.repoArg
	if repoArg == "" {
		session, sErr := state.LoadSession(state.SessionFilePath(cfg.Defaults.StateDir))
		if sErr != nil {
			return fmt.Errorf("no repository specified and no previous session to fall back on: %w", sErr)
		}
		repoArg = session.Repository
		logger.Debug().Str("repository", repoArg).Msg("reusing repository from last session")
	}

	ref, err := parseRepository(repoArg)
	if err != nil {
		return err
	}

	filter, err := parseStateFilter(opts.state)
	if err != nil {
		return err
	}

	if opts.format != formatTable && opts.format != formatNDJSON {
		return fmt.Errorf("invalid format %q: must be table or ndjson", opts.format)
	}

	token := getToken(opts.token, cfg.GitHub.TokenEnv)
	if token == "" {
		logger.Debug().Msg("no token configured, using anonymous access")
	}

	pageSize := cfg.GetPageSize(ref.String())

	client := newGitHubClient(token, cfg.GitHub.GraphQLEndpoint)
	svc := fetch.NewService(client, logger)
	tracker := metadata.New()
	start := time.Now()

	fmt.Fprintf(os.Stderr, "Fetching items from %s...", ref)

	result, err := svc.Fetch(ctx, ref, fetch.Options{
		Filter:   filter,
		PageSize: pageSize,
		Progress: func(p fetch.Progress) {
			renderProgress(os.Stderr, ref, p)
		},
	})
	fmt.Fprint(os.Stderr, "\r\033[K") // Clear progress line
	if err != nil {
		return err
	}

	items := make([]github.Item, 0, result.Total())
	items = append(items, result.Issues...)
	items = append(items, result.PullRequests...)

	tracker.AddAPICalls(result.APICalls)
	for _, item := range items {
		tracker.ObserveItem(item)
	}

	items = rank.FilterByState(items, filter)
	rank.SortByPopularity(items)
	if opts.format == formatNDJSON {
		items = rank.Top(items, opts.limit)
	}

	writer, err := newItemWriter(opts.format, opts.outputFile, opts.limit)
	if err != nil {
		return err
	}
	defer writer.Close()

	for _, item := range items {
		if err := writer.Write(item); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	if result.Total() > 0 {
		fmt.Fprintf(os.Stderr, "Successfully fetched %d items (%d issues, %d pull requests) in %s\n",
			result.Total(), len(result.Issues), len(result.PullRequests), time.Since(start).Round(time.Second))
	} else {
		fmt.Fprintf(os.Stderr, "No matching items found in %s\n", ref)
	}

	meta := tracker.GenerateMetadata(version.Version, metadata.FetchParams{
		Repository: ref.String(),
		Filter:     string(filter),
		PageSize:   pageSize,
	})

	// Recording the run must not fail a fetch that already succeeded.
	if err := metadata.SaveMetadata(meta, cfg.Defaults.StateDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save fetch metadata: %v\n", err)
	}

	session := &state.SessionState{
		Repository:    ref.String(),
		Filter:        string(filter),
		LastFetchID:   meta.FetchID,
		LastFetchTime: meta.Results.CompletedAt,
		TotalItems:    result.Total(),
	}
	if err := state.SaveSession(session, state.SessionFilePath(cfg.Defaults.StateDir)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save session state: %v\n", err)
	}

	if opts.showStats {
		if err := metadata.WriteMetadataToWriter(meta, os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to print fetch statistics: %v\n", err)
		}
	}

	return nil
}

// parseRepository parses an owner/repo string into a repository reference.
func parseRepository(repoArg string) (github.RepoRef, error) {
	parts := strings.Split(repoArg, "/")
	if len(parts) != 2 {
		return github.RepoRef{}, fmt.Errorf("invalid repository format. Expected: <owner>/<repo>, got: %s", repoArg)
	}

	ref := github.RepoRef{
		Owner: strings.TrimSpace(parts[0]),
		Name:  strings.TrimSpace(parts[1]),
	}
	if ref.Owner == "" || ref.Name == "" ||
		strings.ContainsAny(ref.Owner, " \t") || strings.ContainsAny(ref.Name, " \t") {
		return github.RepoRef{}, fmt.Errorf("invalid repository format. Expected: <owner>/<repo>, got: %s", repoArg)
	}

	return ref, nil
}

// parseStateFilter maps the --state flag onto a state filter.
func parseStateFilter(s string) (github.StateFilter, error) {
	switch strings.ToLower(s) {
	case "open":
		return github.FilterOpen, nil
	case "closed":
		return github.FilterClosed, nil
	case "all":
		return github.FilterAll, nil
	default:
		return "", fmt.Errorf("invalid state %q: must be one of open, closed, all", s)
	}
}

// getToken returns the GitHub token from the flag or the configured
// environment variable. An empty result means anonymous access.
func getToken(flagToken, tokenEnv string) string {
	if flagToken != "" {
		return flagToken
	}
	if tokenEnv == "" {
		return ""
	}
	return os.Getenv(tokenEnv)
}

// newItemWriter builds the output writer for the requested format. The
// table limit is handled by the writer itself so it can report how many
// rows were held back.
func newItemWriter(format, outputFile string, limit int) (output.ItemWriter, error) {
	switch format {
	case formatNDJSON:
		if outputFile == "" {
			return output.NewWriter(os.Stdout), nil
		}
		return output.NewFileWriter(outputFile)
	case formatTable:
		if outputFile == "" {
			return output.NewTableWriter(os.Stdout, limit), nil
		}
		return output.NewFileTableWriter(outputFile, limit)
	default:
		return nil, fmt.Errorf("invalid format %q: must be table or ndjson", format)
	}
}

// renderProgress overwrites the stderr progress line with the current
// counts. Totals come from the count query, so the percentage is known
// from the first page onward.
func renderProgress(w io.Writer, ref github.RepoRef, p fetch.Progress) {
	if p.Total() > 0 {
		percent := float64(p.Fetched()) * 100 / float64(p.Total())
		fmt.Fprintf(w, "\rFetching items from %s... %d/%d [%.1f%%]", ref, p.Fetched(), p.Total(), percent)
		return
	}
	fmt.Fprintf(w, "\rFetching items from %s... %d items", ref, p.Fetched())
}

// mapErrorToExitCode maps internal errors to appropriate exit codes.
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, pulseerrors.ErrInvalidToken) ||
		errors.Is(err, pulseerrors.ErrRepoNotFound) ||
		errors.Is(err, pulseerrors.ErrRateLimit) {
		return 2 // Authentication/authorization errors
	}

	if errors.Is(err, pulseerrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
