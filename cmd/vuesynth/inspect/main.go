package inspect

import (
	"context"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/vuesynth/pkg/config"
	"github.com/walteh/vuesynth/pkg/lifecycle"
	"github.com/walteh/vuesynth/pkg/scriptast"
	"github.com/walteh/vuesynth/pkg/sfc"
	"gitlab.com/tozd/go/errors"
)

type Handler struct {
	file       string
	configFile string
	showMap    bool
}

func NewInspectCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "inspect [component-file]",
		Short: "show the synthetic documents derived from a component file",
	}

	cmd.Flags().StringVar(&me.configFile, "config", "", "path to a vuesynth config file")
	cmd.Flags().BoolVar(&me.showMap, "map", true, "print the position map entries")
	cmd.Args = cobra.ExactArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.file = args[0]
		return me.Run(cmd.Context(), afero.NewOsFs(), cmd)
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, fs afero.Fs, cmd *cobra.Command) error {
	cfg := config.Default()
	if me.configFile != "" {
		loaded, err := config.Load(fs, me.configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	content, err := afero.ReadFile(fs, me.file)
	if err != nil {
		return errors.Errorf("failed to read component file %s: %w", me.file, err)
	}
	text := string(content)

	desc, err := sfc.ParseRegions(text)
	if err != nil {
		return errors.Errorf("failed to split component file %s: %w", me.file, err)
	}

	mgr := lifecycle.NewManager(lifecycle.NewDefaultEngine(), cfg)

	if desc.Template != nil {
		virtualPath := me.file + cfg.TemplateSuffix
		doc := mgr.Materialize(ctx, virtualPath, desc.Template.Content(text), 0, scriptast.KindScript)

		cmd.Printf("--- synthetic template document (%s)\n", virtualPath)
		cmd.Println(doc.Text)

		if me.showMap {
			if pmap, ok := mgr.Maps().Get(me.file); ok {
				cmd.Println("--- position map (original -> synthetic)")
				for _, entry := range pmap.Entries() {
					start, _ := entry.Original.Resolve(desc.Template.Content(text))
					cmd.Printf("%s -> %s  (template line %d, character %d)\n",
						entry.Original, entry.Synthetic, start.Line, start.Character)
				}
			}
		}
	}

	if desc.Script != nil {
		doc := mgr.Materialize(ctx, me.file, desc.Script.Content(text), 0, scriptast.KindComponent)

		cmd.Printf("--- rewritten script document (%s)\n", me.file)
		cmd.Println(scriptast.Print(doc))
	}

	if desc.Template == nil && desc.Script == nil {
		return errors.Errorf("component file %s has no template or script section", me.file)
	}

	return nil
}
