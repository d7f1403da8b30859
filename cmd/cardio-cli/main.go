package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/synaptica-ai/cardiocheck/pkg/assessment"
	"github.com/synaptica-ai/cardiocheck/pkg/common/logger"
	"github.com/synaptica-ai/cardiocheck/pkg/prediction"
	"github.com/synaptica-ai/cardiocheck/pkg/session"
)

var (
	profilePath string
	jsonOutput  bool
	fieldValues = map[assessment.Field]*int{}
	settings    = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "cardio-cli",
	Short: "Cardiovascular risk assessment from the command line",
	Long: `cardio-cli builds a health profile from flags or a profile file and either:
- derive: prints BMI and blood pressure category locally
- assess: sends the profile to the prediction service and prints the result

Unset fields take the same defaults as the web form.`,
	SilenceUsage: true,
}

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Print BMI and blood pressure category",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := buildProfile(cmd)
		if err != nil {
			return err
		}
		derived := assessment.Derive(profile)
		if jsonOutput {
			return printJSON(derived)
		}
		printDerived(derived)
		return nil
	},
}

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Request a risk prediction for the profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := buildProfile(cmd)
		if err != nil {
			return err
		}

		endpoint := settings.GetString("api_url")
		timeout := settings.GetDuration("timeout")
		client := prediction.NewClient(endpoint, timeout)

		s := session.New("cli", client, session.WithTimeout(timeout))
		for _, f := range assessment.Fields {
			value, _ := profile.Get(f)
			if err := s.Update(f, value); err != nil {
				return err
			}
		}

		submitErr := s.Submit(context.Background())
		snap := s.Snapshot()
		if jsonOutput {
			if err := printJSON(snap); err != nil {
				return err
			}
			return submitErr
		}

		printDerived(snap.Derived)
		if submitErr != nil {
			return fmt.Errorf("%s (%w)", session.MessageFailure, submitErr)
		}
		printPresentation(*snap.Presentation)
		return nil
	},
}

func init() {
	defaults := assessment.DefaultProfile()
	flags := rootCmd.PersistentFlags()
	for _, f := range assessment.Fields {
		value, _ := defaults.Get(f)
		bounds, _ := assessment.BoundsOf(f)
		spec, _ := assessment.SpecOf(f)
		fieldValues[f] = new(int)
		flags.IntVar(fieldValues[f], string(f), value, fmt.Sprintf("%s (%d-%d)", spec.Label, bounds.Min, bounds.Max))
	}
	flags.StringVar(&profilePath, "profile", "", "Path to a YAML or JSON profile file")
	flags.BoolVar(&jsonOutput, "json", false, "Print machine-readable JSON")

	assessCmd.Flags().String("endpoint", "http://localhost:8000/predict", "Prediction service URL")
	assessCmd.Flags().Duration("timeout", 15*time.Second, "Prediction request timeout")

	// CARDIO_API_URL and CARDIO_TIMEOUT override the defaults, flags override both
	settings.SetEnvPrefix("CARDIO")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
	settings.BindPFlag("api_url", assessCmd.Flags().Lookup("endpoint"))
	settings.BindPFlag("timeout", assessCmd.Flags().Lookup("timeout"))

	rootCmd.AddCommand(deriveCmd)
	rootCmd.AddCommand(assessCmd)
}

func main() {
	logger.Init()
	logger.Log.SetLevel(logrus.WarnLevel)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildProfile layers the profile file over the defaults, then any flags
// set explicitly on the command line.
func buildProfile(cmd *cobra.Command) (assessment.HealthProfile, error) {
	profile := assessment.DefaultProfile()

	if profilePath != "" {
		file := viper.New()
		file.SetConfigFile(profilePath)
		if err := file.ReadInConfig(); err != nil {
			return profile, fmt.Errorf("read profile: %w", err)
		}
		for _, f := range assessment.Fields {
			if !file.IsSet(string(f)) {
				continue
			}
			if err := profile.Set(f, file.GetInt(string(f))); err != nil {
				return profile, err
			}
		}
	}

	for _, f := range assessment.Fields {
		if !cmd.Flags().Changed(string(f)) {
			continue
		}
		if err := profile.Set(f, *fieldValues[f]); err != nil {
			return profile, err
		}
	}
	return profile, nil
}

func printDerived(d assessment.Derived) {
	fmt.Printf("BMI:            %s\n", d.BMIDisplay)
	fmt.Printf("Blood pressure: %s (%s)\n", d.BloodPressure, d.BloodPressureRaw)
}

func printPresentation(p assessment.Presentation) {
	fmt.Printf("\n%s\n", p.Label)
	fmt.Printf("  %s\n", p.Subtitle)
	fmt.Printf("  Risk probability: %s\n", p.Probability)
	fmt.Println("\nRecommendations:")
	for _, rec := range p.Recommendations {
		fmt.Printf("  [%s] %s\n", rec.Priority, rec.Text)
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
