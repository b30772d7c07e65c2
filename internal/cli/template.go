package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/connorodea/leonardo-cli/internal/leonardo"
	"github.com/connorodea/leonardo-cli/internal/templates"
)

func newTemplateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage reusable generation templates",
	}

	cmd.AddCommand(
		newTemplateSaveCmd(app),
		newTemplateListCmd(app),
		newTemplateUseCmd(app),
		newTemplateDeleteCmd(app),
	)

	return cmd
}

func (a *App) templateStore() (*templates.Store, error) {
	dir, err := templates.DefaultDir()
	if err != nil {
		return nil, err
	}
	return templates.NewStore(dir), nil
}

func newTemplateSaveCmd(app *App) *cobra.Command {
	var (
		name           string
		prompt         string
		modelID        string
		width          int
		height         int
		alchemy        bool
		phoenix        bool
		contrast       float64
		presetStyle    string
		negativePrompt string
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save generation settings as a reusable template",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return errors.New("template name is required")
			}
			if prompt == "" {
				return errors.New("prompt is required")
			}

			store, err := app.templateStore()
			if err != nil {
				return err
			}

			template := &templates.Template{
				Prompt:         prompt,
				ModelID:        modelID,
				Width:          width,
				Height:         height,
				Alchemy:        alchemy,
				Phoenix:        phoenix,
				Contrast:       contrast,
				PresetStyle:    presetStyle,
				NegativePrompt: negativePrompt,
			}

			if err := store.Save(name, template); err != nil {
				return err
			}

			fmt.Fprintf(app.stdout, "Template %q saved successfully\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name for the template")
	cmd.Flags().StringVar(&prompt, "prompt", "", "The prompt to save")
	cmd.Flags().StringVar(&modelID, "model-id", "", "Model ID")
	cmd.Flags().IntVar(&width, "width", 512, "Image width")
	cmd.Flags().IntVar(&height, "height", 512, "Image height")
	cmd.Flags().BoolVar(&alchemy, "alchemy", false, "Enable Alchemy")
	cmd.Flags().BoolVar(&phoenix, "phoenix", false, "Use the Phoenix model")
	cmd.Flags().Float64Var(&contrast, "contrast", 0, "Contrast for the Phoenix model")
	cmd.Flags().StringVar(&presetStyle, "preset-style", "", "Preset style")
	cmd.Flags().StringVar(&negativePrompt, "negative-prompt", "", "What the images must not contain")

	return cmd
}

func newTemplateListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.templateStore()
			if err != nil {
				return err
			}

			names, err := store.List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(app.stdout, "No templates found")
				return nil
			}

			fmt.Fprintf(app.stdout, "%-20s %-53s %s\n", "NAME", "PROMPT", "SETTINGS")
			fmt.Fprintln(app.stdout, strings.Repeat("-", 100))
			for _, name := range names {
				template, err := store.Load(name)
				if err != nil {
					fmt.Fprintf(app.stdout, "%-20s %-53s %v\n", name, "Error loading", err)
					continue
				}
				fmt.Fprintf(app.stdout, "%-20s %-53s %s\n",
					name, truncate(template.Prompt, 50), templateSettings(template))
			}
			return nil
		},
	}

	return cmd
}

// templateSettings summarizes a template for the list table
func templateSettings(t *templates.Template) string {
	var settings []string
	if t.Alchemy {
		settings = append(settings, "Alchemy")
	}
	if t.Phoenix {
		settings = append(settings, "Phoenix")
	}
	if t.Width > 0 && t.Height > 0 {
		settings = append(settings, fmt.Sprintf("%dx%d", t.Width, t.Height))
	}
	if len(settings) == 0 {
		return "Default"
	}
	return strings.Join(settings, ", ")
}

func newTemplateUseCmd(app *App) *cobra.Command {
	var (
		outputDir   string
		num         int
		timeoutSecs int
		yes         bool
	)

	cmd := &cobra.Command{
		Use:   "use NAME",
		Short: "Generate images using a saved template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			store, err := app.templateStore()
			if err != nil {
				return err
			}
			template, err := store.Load(name)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("num") {
				num = app.cfg.Defaults.NumImages
			}
			if !cmd.Flags().Changed("output-dir") {
				outputDir = app.cfg.Defaults.OutputDir
			}
			if !cmd.Flags().Changed("timeout") {
				timeoutSecs = app.cfg.Defaults.TimeoutSeconds
			}

			// Hand-edited template files may omit the size
			if template.Width == 0 {
				template.Width = app.cfg.Defaults.Width
			}
			if template.Height == 0 {
				template.Height = app.cfg.Defaults.Height
			}

			fmt.Fprintln(app.stdout, "Template Settings")
			fmt.Fprintln(app.stdout, strings.Repeat("-", 40))
			fmt.Fprintf(app.stdout, "%-20s %s\n", "Template:", name)
			fmt.Fprintf(app.stdout, "%-20s %s\n", "Prompt:", template.Prompt)
			fmt.Fprintf(app.stdout, "%-20s %dx%d\n", "Size:", template.Width, template.Height)
			fmt.Fprintf(app.stdout, "%-20s %s\n", "Alchemy:", yesNo(template.Alchemy))
			fmt.Fprintf(app.stdout, "%-20s %s\n", "Phoenix:", yesNo(template.Phoenix))

			if !yes && !app.confirm("Generate images with these settings?") {
				fmt.Fprintln(app.stdout, "Generation cancelled")
				return nil
			}

			client, err := app.client()
			if err != nil {
				return err
			}

			modelID, err := app.resolveModelID(ctx, client, template.ModelID, template.Phoenix)
			if err != nil {
				return err
			}

			request := &leonardo.GenerationRequest{
				Prompt:         template.Prompt,
				Width:          template.Width,
				Height:         template.Height,
				NumImages:      num,
				ModelID:        modelID,
				NegativePrompt: template.NegativePrompt,
				PresetStyle:    template.PresetStyle,
				Alchemy:        template.Alchemy,
			}

			if template.Phoenix {
				request.IsPhoenix = true
				value, warnings := phoenixContrast(template.Contrast, template.Alchemy)
				for _, warning := range warnings {
					fmt.Fprintln(app.stdout, warning)
				}
				request.Contrast = value
			}

			fmt.Fprintln(app.stdout, "Generating images from template...")

			return app.runGeneration(ctx, client, generationJob{
				request:   request,
				outputDir: outputDir,
				timeout:   time.Duration(timeoutSecs) * time.Second,
			})
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", "./leonardo-output", "Directory to save images")
	cmd.Flags().IntVar(&num, "num", 1, "Number of images to generate")
	cmd.Flags().IntVar(&timeoutSecs, "timeout", 120, "Seconds to wait for the job to finish")
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")

	return cmd
}

func newTemplateDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a saved template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.templateStore()
			if err != nil {
				return err
			}

			if err := store.Delete(args[0]); err != nil {
				return err
			}

			fmt.Fprintf(app.stdout, "Template %q deleted successfully\n", args[0])
			return nil
		},
	}

	return cmd
}
