package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/goccy/go-yaml"
	"github.com/gosimple/slug"
	"github.com/spf13/cobra"

	"github.com/vitae-cv/vitae/internal/domain/entities"
)

// NewOptions describes the starter CV written by the new command.
type NewOptions struct {
	Name          string
	Email         string
	Location      string
	Theme         string
	OutputPath    string
	Force         bool
	NoInteractive bool
}

var newCmd = &cobra.Command{
	Use:   "new <full name>",
	Short: "Create a starter CV file",
	Long: `Write a starter CV with a few sample sections to edit. When stdin is a
terminal the missing details are asked for interactively.`,
	Example: `  vitae new "Jane Doe"
  vitae new "Jane Doe" --theme moderncv --email jane@example.com --no-interactive`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func init() {
	newCmd.Flags().String("email", "", "Email address")
	newCmd.Flags().String("location", "", "Location, e.g. city and country")
	newCmd.Flags().String("theme", entities.ThemeClassic, "Theme: "+strings.Join(entities.BuiltinThemes(), ", "))
	newCmd.Flags().StringP("output", "o", "", "Output file path (default: <name>-cv.yaml)")
	newCmd.Flags().Bool("force", false, "Overwrite an existing file")
	newCmd.Flags().Bool("no-interactive", false, "Disable interactive prompts")

	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	opts := NewOptions{Name: strings.TrimSpace(args[0])}
	opts.Email, _ = cmd.Flags().GetString("email")
	opts.Location, _ = cmd.Flags().GetString("location")
	opts.Theme, _ = cmd.Flags().GetString("theme")
	opts.OutputPath, _ = cmd.Flags().GetString("output")
	opts.Force, _ = cmd.Flags().GetBool("force")
	opts.NoInteractive, _ = cmd.Flags().GetBool("no-interactive")

	if !opts.NoInteractive && stdinIsTerminal() {
		if err := promptNewOptions(&opts); err != nil {
			return err
		}
	}

	path, err := writeStarterCV(opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	fmt.Fprintf(cmd.OutOrStdout(), "Run: vitae render %s\n", path)
	return nil
}

func promptNewOptions(opts *NewOptions) error {
	if opts.Email == "" {
		err := huh.NewInput().
			Title("Email").
			Value(&opts.Email).
			Run()
		if err != nil {
			return err
		}
	}
	if opts.Location == "" {
		err := huh.NewInput().
			Title("Location").
			Placeholder("City, Country").
			Value(&opts.Location).
			Run()
		if err != nil {
			return err
		}
	}
	return huh.NewSelect[string]().
		Title("Theme").
		Options(huh.NewOptions(entities.BuiltinThemes()...)...).
		Value(&opts.Theme).
		Run()
}

func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// writeStarterCV writes the starter document and returns its path.
func writeStarterCV(opts NewOptions) (string, error) {
	if opts.Name == "" {
		return "", errors.New("name must not be empty")
	}
	if !entities.IsBuiltinTheme(opts.Theme) {
		return "", fmt.Errorf("unknown theme %q (available: %s)", opts.Theme, strings.Join(entities.BuiltinThemes(), ", "))
	}

	path := opts.OutputPath
	if path == "" {
		path = starterFileName(opts.Name)
	}

	data, err := yaml.Marshal(starterCV(opts))
	if err != nil {
		return "", fmt.Errorf("failed to encode starter CV: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if opts.Force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	//nolint:gosec // G304: User-controlled output file path is intentional
	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		_ = file.Close() // Best-effort cleanup
	}()

	if _, err := file.Write(data); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func starterFileName(name string) string {
	base := slug.Make(name)
	if base == "" {
		base = "my"
	}
	return base + "-cv.yaml"
}

// starterCV builds the starter document. MapSlice keeps the keys in the
// order a reader expects.
func starterCV(opts NewOptions) yaml.MapSlice {
	cv := yaml.MapSlice{{Key: "name", Value: opts.Name}}
	if opts.Location != "" {
		cv = append(cv, yaml.MapItem{Key: "location", Value: opts.Location})
	}
	if opts.Email != "" {
		cv = append(cv, yaml.MapItem{Key: "email", Value: opts.Email})
	}
	cv = append(cv, yaml.MapItem{Key: "sections", Value: yaml.MapSlice{
		{Key: "summary", Value: []string{
			"Write two or three sentences about what you do and what you are looking for.",
		}},
		{Key: "experience", Value: []yaml.MapSlice{{
			{Key: "company", Value: "Company Name"},
			{Key: "position", Value: "Job Title"},
			{Key: "location", Value: "City, Country"},
			{Key: "start_date", Value: "2021-03"},
			{Key: "end_date", Value: "present"},
			{Key: "highlights", Value: []string{
				"Describe an achievement with a number attached to it",
				"Keep each highlight to one line",
			}},
		}}},
		{Key: "education", Value: []yaml.MapSlice{{
			{Key: "institution", Value: "University Name"},
			{Key: "area", Value: "Computer Science"},
			{Key: "degree", Value: "BS"},
			{Key: "start_date", Value: "2016-09"},
			{Key: "end_date", Value: "2020-06"},
		}}},
		{Key: "skills", Value: []yaml.MapSlice{
			{{Key: "label", Value: "Languages"}, {Key: "details", Value: "Go, Python, SQL"}},
			{{Key: "label", Value: "Tools"}, {Key: "details", Value: "Git, Docker, Kubernetes"}},
		}},
	}})

	return yaml.MapSlice{
		{Key: "cv", Value: cv},
		{Key: "design", Value: yaml.MapSlice{{Key: "theme", Value: opts.Theme}}},
	}
}
