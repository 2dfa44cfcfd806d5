// Command agent is the security-agent CLI: runs check plugins and uploads
// their findings to the policy service's report endpoint.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentrypass/sentrypass/internal/agent"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "agent",
		Short: "Security agent CLI",
	}
	root.AddCommand(newScanCmd(), newReportCmd())
	return root
}

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "scan {perimeter|rate-limit|authz|mobile-build}",
		Short:     "Run a single named check plugin",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"perimeter", "rate-limit", "authz", "mobile-build"},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			plugin, err := agent.PluginByName(name)
			if err != nil {
				return err
			}

			pipeline := agent.NewPipeline([]agent.CheckPlugin{plugin})
			report, err := pipeline.Run(cmd.Context(), "", "", "cli")
			if err != nil {
				return err
			}

			fmt.Printf("scan %s completed. findings: %d\n", name, len(report.Findings))
			return nil
		},
	}
	return cmd
}

func newReportCmd() *cobra.Command {
	var endpoint, appID, env, source, token, pipelineProvider, pipelineRunID string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run all check plugins and upload a report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = os.Getenv("AGENT_API_TOKEN")
			}

			pipeline := agent.NewPipeline(agent.BuiltinPlugins())
			report, err := pipeline.Run(cmd.Context(), appID, env, source)
			if err != nil {
				return err
			}

			opts := agent.ReportOptions{
				Endpoint:         endpoint,
				AppID:            appID,
				Env:              env,
				Source:           source,
				PipelineProvider: pipelineProvider,
				PipelineRunID:    pipelineRunID,
				Token:            token,
			}
			payload, err := agent.BuildPayload(report, opts, time.Now())
			if err != nil {
				return fmt.Errorf("build report payload: %w", err)
			}

			if dryRun {
				return printJSON(payload)
			}

			httpClient := &http.Client{Timeout: 30 * time.Second}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if err := agent.Submit(ctx, httpClient, endpoint, token, payload); err != nil {
				return fmt.Errorf("report upload failed: %w", err)
			}

			fmt.Printf("report uploaded. findings: %d\n", len(report.Findings))
			return nil
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "http://localhost:8082/v1/reports/upload", "policy service report upload endpoint")
	cmd.Flags().StringVar(&appID, "app-id", "fintech.mobile", "application identifier")
	cmd.Flags().StringVar(&env, "env", "local", "deployment environment")
	cmd.Flags().StringVar(&source, "source", "ci", "report source label")
	cmd.Flags().StringVar(&token, "token", "", "bearer token (defaults to AGENT_API_TOKEN)")
	cmd.Flags().StringVar(&pipelineProvider, "pipeline-provider", "", "CI provider name, paired with --pipeline-run-id")
	cmd.Flags().StringVar(&pipelineRunID, "pipeline-run-id", "", "CI run identifier, paired with --pipeline-provider")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the report payload instead of uploading it")

	return cmd
}
