package check

import (
	"context"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/vuesynth/pkg/config"
	"github.com/walteh/vuesynth/pkg/markup"
	"github.com/walteh/vuesynth/pkg/sfc"
	"github.com/walteh/vuesynth/pkg/transform"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
)

type Handler struct {
	pattern    string
	configFile string
}

func NewCheckCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "check [glob]",
		Short: "run the template pipeline over matching component files and report failures",
	}

	cmd.Flags().StringVar(&me.configFile, "config", "", "path to a vuesynth config file")
	cmd.Args = cobra.ExactArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.pattern = args[0]
		return me.Run(cmd.Context(), afero.NewOsFs(), cmd)
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, fs afero.Fs, cmd *cobra.Command) error {
	logger := zerolog.Ctx(ctx)

	cfg := config.Default()
	if me.configFile != "" {
		loaded, err := config.Load(fs, me.configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	matches, err := doublestar.Glob(afero.NewIOFS(fs), me.pattern)
	if err != nil {
		return errors.Errorf("invalid glob pattern %q: %w", me.pattern, err)
	}
	if len(matches) == 0 {
		logger.Warn().Str("pattern", me.pattern).Msg("no component files matched")
		return nil
	}

	bad := color.New(color.FgRed)
	good := color.New(color.FgGreen)

	var errs error
	failed := 0
	for _, file := range matches {
		if err := me.checkFile(ctx, fs, file, cfg); err != nil {
			failed++
			bad.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", file, err)
			errs = multierr.Append(errs, errors.Errorf("%s: %w", file, err))
			continue
		}
		good.Fprintf(cmd.OutOrStdout(), "ok   %s\n", file)
	}

	logger.Info().
		Int("checked", len(matches)).
		Int("failed", failed).
		Msg("check complete")

	return errs
}

func (me *Handler) checkFile(ctx context.Context, fs afero.Fs, file string, cfg *config.Config) error {
	content, err := afero.ReadFile(fs, file)
	if err != nil {
		return errors.Errorf("failed to read file: %w", err)
	}

	desc, err := sfc.ParseRegions(string(content))
	if err != nil {
		return errors.Errorf("failed to split regions: %w", err)
	}
	if desc.Template == nil {
		return nil
	}

	src := desc.Template.Content(string(content))
	tree, err := markup.Parse(src)
	if err != nil {
		return errors.Errorf("template markup: %w", err)
	}

	if _, err := transform.Template(ctx, tree, cfg); err != nil {
		return errors.Errorf("template transform: %w", err)
	}
	return nil
}
