package cmd

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/visapath/visapath-cli/api/schemas"
	"github.com/visapath/visapath-cli/internal/assembler"
	"github.com/visapath/visapath-cli/internal/observability"
	"github.com/visapath/visapath-cli/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// newAssessCmd creates the `assess` command: run one assessment for a
// profile file and print the resulting decision graph as JSON.
func newAssessCmd() *cobra.Command {
	assessCmd := &cobra.Command{
		Use:   "assess <profile.json>",
		Short: "Scores a profile and renders its eligibility decision graph",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("catalog.snapshot_path", cmd.Flags().Lookup("catalog")); err != nil {
				return err
			}
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			// Re-unmarshal so flag overrides bound in PreRunE apply.
			if err := viper.Unmarshal(appConfig); err != nil {
				return fmt.Errorf("failed to apply flag overrides: %w", err)
			}

			profile, err := loadProfile(args[0])
			if err != nil {
				return err
			}

			sel := assembler.Selection{
				Visa:      schemas.VisaCode(viper.GetString("visa")),
				State:     viper.GetString("state"),
				PathwayID: viper.GetString("pathway"),
			}
			if sel.Visa != "" && !sel.Visa.Valid() {
				return fmt.Errorf("unknown visa subclass %q", sel.Visa)
			}

			components, err := service.Build(ctx, appConfig, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize components: %w", err)
			}
			defer components.Close()

			result, err := components.Assembler.Assess(ctx, profile, sel)
			if err != nil {
				return fmt.Errorf("assessment failed: %w", err)
			}
			logger.Info("Assessment complete",
				zap.String("assessment_id", result.AssessmentID),
				zap.Int("score", result.Score))

			return writeResult(viper.GetString("output"), result)
		},
	}

	assessCmd.Flags().String("visa", "", "selected visa subclass (189, 190 or 491)")
	assessCmd.Flags().String("state", "", "selected state or territory")
	assessCmd.Flags().String("pathway", "", "selected pathway id")
	assessCmd.Flags().String("catalog", "", "path to a YAML catalog snapshot")
	assessCmd.Flags().StringP("output", "o", "", "write the result to a file instead of stdout")
	return assessCmd
}

// loadProfile reads an applicant profile from a JSON file.
func loadProfile(path string) (schemas.Profile, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return schemas.Profile{}, fmt.Errorf("cannot expand profile path: %w", err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return schemas.Profile{}, fmt.Errorf("cannot read profile: %w", err)
	}
	var profile schemas.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return schemas.Profile{}, fmt.Errorf("malformed profile: %w", err)
	}
	return profile, nil
}

func writeResult(path string, result *assembler.Result) error {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	out = append(out, '\n')
	if path == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
