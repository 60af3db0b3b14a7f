package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:          "healthassistant",
		Short:        "Ayu-Chain health record assistant powered by Gemini",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), envFile)
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to read configuration from")

	rootCmd.AddCommand(serveCmd(&envFile))
	rootCmd.AddCommand(askCmd(&envFile))
	rootCmd.AddCommand(analyzeCmd(&envFile))

	return rootCmd
}

func serveCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *envFile)
		},
	}
}

func askCmd(envFile *string) *cobra.Command {
	var patientID string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about a patient's health record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.assistant.Ask(cmd.Context(), patientID, args[0])
			if err != nil {
				return err
			}
			return printConsultation(cmd, result.Answer, result.Failure != nil)
		},
	}
	cmd.Flags().StringVar(&patientID, "patient", "", "patient identifier (defaults to DEFAULT_PATIENT_ID)")

	return cmd
}

func analyzeCmd(envFile *string) *cobra.Command {
	var patientID string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the proactive four-point analysis of a patient's health record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.assistant.Analyze(cmd.Context(), patientID)
			if err != nil {
				return err
			}
			return printConsultation(cmd, result.Answer, result.Failure != nil)
		},
	}
	cmd.Flags().StringVar(&patientID, "patient", "", "patient identifier (defaults to DEFAULT_PATIENT_ID)")

	return cmd
}

// printConsultation writes the answer to stdout, or to stderr with a
// non-zero exit when inference failed.
func printConsultation(cmd *cobra.Command, answer string, failed bool) error {
	if failed {
		fmt.Fprintln(cmd.ErrOrStderr(), answer)
		return errInferenceFailed
	}
	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}
