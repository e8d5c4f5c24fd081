package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/nerstat/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application settings",
	Long: `View and change stored settings.

Stored values live in ~/.nerstat/config.toml. Environment variables
(NERSTAT_OUTPUT_DIR, NERSTAT_EXTRACTOR_MODEL, ...) and analyze flags
override them for a single run without being saved.`,
	RunE: runConfigList,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every setting with its effective value",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the effective value of a setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactive setup wizard",
	Long:  `Choose the extractor, model, endpoint and report output step by step.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	keys := settingsService.Keys()
	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		val, err := settingsService.GetValue(key)
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}
		rows = append(rows, []string{key, displayValue(key, val)})
	}
	cmd.Println(renderTable([]string{"key", "value"}, rows))

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	val, err := settingsService.GetValue(args[0])
	if err != nil {
		return err
	}
	cmd.Println(val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.SetValue(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("%s = %s\n", args[0], displayValue(args[0], args[1]))
	return nil
}

// wizardAnswers collects the values edited by config init.
type wizardAnswers struct {
	Provider  string
	Model     string
	BaseURL   string
	APIToken  string
	OutputDir string
	Formats   []string
}

func currentAnswers() (*wizardAnswers, error) {
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}
	formats := make([]string, len(settings.Output.Formats))
	for i, f := range settings.Output.Formats {
		formats[i] = f.String()
	}
	return &wizardAnswers{
		Provider:  settings.Extractor.Provider.String(),
		Model:     settings.Extractor.Model,
		BaseURL:   settings.Extractor.BaseURL,
		APIToken:  settings.Extractor.APIToken,
		OutputDir: settings.Output.Dir,
		Formats:   formats,
	}, nil
}

func wizardForm(a *wizardAnswers) *huh.Form {
	providers := make([]huh.Option[string], 0, len(domain.AllExtractorProviders()))
	for _, p := range domain.AllExtractorProviders() {
		providers = append(providers, huh.NewOption(p.Description(), p.String()))
	}
	formats := make([]huh.Option[string], 0, len(domain.AllReportFormats()))
	for _, f := range domain.AllReportFormats() {
		formats = append(formats, huh.NewOption(f.String(), f.String()))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Extractor").
				Options(providers...).
				Value(&a.Provider),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Model").
				Description("Hugging Face repository or Ollama tag; ignored by the dictionary extractor").
				Value(&a.Model),
			huh.NewInput().
				Title("Endpoint").
				Value(&a.BaseURL),
			huh.NewInput().
				Title("API token").
				Description("Hugging Face only").
				EchoMode(huh.EchoModePassword).
				Value(&a.APIToken),
		).WithHideFunc(func() bool { return a.Provider == domain.ExtractorDictionary.String() }),
		huh.NewGroup(
			huh.NewInput().
				Title("Output directory").
				Value(&a.OutputDir).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("output directory is required")
					}
					return nil
				}),
			huh.NewMultiSelect[string]().
				Title("Report formats").
				Options(formats...).
				Value(&a.Formats).
				Validate(func(s []string) error {
					if len(s) == 0 {
						return errors.New("select at least one format")
					}
					return nil
				}),
		),
	)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if !isTerminal(os.Stdin) {
		return errors.New("config init needs an interactive terminal; use config set instead")
	}

	answers, err := currentAnswers()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if err := wizardForm(answers).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			cmd.Println("Aborted; nothing saved.")
			return nil
		}
		return err
	}
	if err := applyAnswers(answers); err != nil {
		return err
	}
	cmd.Println("Settings saved.")
	reportExtractorCheck(cmd)
	return nil
}

// reportExtractorCheck pings the saved extractor and prints the outcome.
// An unreachable backend is a warning; the settings stay saved.
func reportExtractorCheck(cmd *cobra.Command) {
	if err := settingsService.ValidateExtractorConfig(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		return
	}
	cmd.Println("Extractor reachable.")
}

// applyAnswers stores wizard answers through the settings service.
func applyAnswers(a *wizardAnswers) error {
	provider := domain.ExtractorProvider(a.Provider)
	if err := settingsService.SetExtractor(provider, a.Model, a.BaseURL); err != nil {
		return fmt.Errorf("set extractor: %w", err)
	}
	if provider == domain.ExtractorHuggingFace && a.APIToken != "" {
		if err := settingsService.SetValue("extractor.api_token", a.APIToken); err != nil {
			return err
		}
	}
	if err := settingsService.SetValue("output.dir", a.OutputDir); err != nil {
		return err
	}
	return settingsService.SetValue("output.formats", strings.Join(a.Formats, ","))
}

// displayValue masks secrets.
func displayValue(key, value string) string {
	if !strings.HasSuffix(key, "api_token") {
		return value
	}
	if len(value) <= 8 {
		if value == "" {
			return ""
		}
		return "****"
	}
	return value[:4] + "..." + value[len(value)-4:]
}
