package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hickeroar/docclass/classifier"
	"github.com/hickeroar/docclass/config"
	"github.com/hickeroar/docclass/features"
)

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "docclass",
		Short: "Incrementally trained document classifier",
		Long: `docclass learns how often each word appears in each category of labeled
text and serves raw and weighted conditional probabilities over HTTP.

Run without a subcommand to start the server.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCommandConfig(cmd, configPath)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to a YAML configuration file.")
	flags.String("port", "", "The port the server should listen on.")
	flags.String("auth-token", "", "Bearer token required by protected endpoints.")
	flags.String("log-level", "", "Logging level: debug, info, warn or error.")

	root.AddCommand(newFeaturesCommand(&configPath))
	root.AddCommand(newSampleCommand(&configPath))
	root.AddCommand(newConfigCommand(&configPath))

	return root
}

// loadCommandConfig reads the config file and applies any flags set on the command line.
func loadCommandConfig(cmd *cobra.Command, path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Server.Port, _ = flags.GetString("port")
	}
	if flags.Changed("auth-token") {
		cfg.Server.AuthToken, _ = flags.GetString("auth-token")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newFeaturesCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "features [text...]",
		Short: "Print the features extracted from text",
		Long:  `Print one feature per line for the given text, or for stdin when no text is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCommandConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			extract, err := features.New(cfg.FeatureOptions())
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(data)
			}

			out := cmd.OutOrStdout()
			for _, feature := range extract(text) {
				fmt.Fprintln(out, feature)
			}
			return nil
		},
	}
}

func newSampleCommand(configPath *string) *cobra.Command {
	var feature, category string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Train the sample documents and print estimates for a feature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCommandConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			extract, err := features.New(cfg.FeatureOptions())
			if err != nil {
				return err
			}

			c := classifier.NewClassifier(extract)
			classifier.SampleTrain(c)

			normalized, ok := c.Feature(feature)
			if !ok {
				return fmt.Errorf("feature %q does not yield exactly one feature", feature)
			}
			feature = normalized

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "feature: %s\n", feature)
			fmt.Fprintf(out, "category: %s\n", category)
			fmt.Fprintf(out, "feature count: %g\n", c.FeatureCount(feature, category))
			fmt.Fprintf(out, "category count: %g\n", c.CategoryCount(category))
			fmt.Fprintf(out, "probability: %.4f\n", c.FProb(feature, category))
			fmt.Fprintf(out, "weighted probability: %.4f\n", c.WeightedProbWith(feature, category, c.FProb, cfg.ClassifierWeighting()))
			return nil
		},
	}

	cmd.Flags().StringVar(&feature, "feature", "", "Feature to look up.")
	cmd.Flags().StringVar(&category, "category", "", "Category to look up.")
	_ = cmd.MarkFlagRequired("feature")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func newConfigCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCommandConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
