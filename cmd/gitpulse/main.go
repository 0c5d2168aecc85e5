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
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gitpulsehq/gitpulse/pkg/version"
)

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "gitpulse",
		Short: "Surface the most popular issues and pull requests in a GitHub repository",
		Long: `GitPulse ranks the issues and pull requests of a GitHub repository by
community reaction. It fetches every matching item over the GraphQL API,
scores the reactions, and prints the results sorted by popularity.`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging on stderr")

	rootCmd.AddCommand(newFetchCommand(&verbose))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(mapErrorToExitCode(err))
	}
}

// newLogger builds the CLI logger. Debug events go to stderr so they
// never mix with item output on stdout.
func newLogger(verbose bool) zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}
