package internal

import (
	"fmt"
	"os"

	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"

	"github.com/lunka/luabuild"
	"github.com/lunka/luabuild/internal/config"
	"github.com/lunka/luabuild/internal/luadist"
)

var (
	buildManifest string
	buildVerbose  bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the Lua static library",
	Long:  `Build compiles Lua according to the luabuild.hcl manifest, or with defaults when no manifest exists.`,
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildManifest, "config", "c", "luabuild.hcl", "Path to the build manifest")
	buildCmd.Flags().BoolVarP(&buildVerbose, "verbose", "v", false, "Log every toolchain command")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	if buildVerbose {
		log.SetOutputLevel(log.Ldebug)
	}

	cfg := &config.Config{}
	if _, err := os.Stat(buildManifest); err == nil {
		cfg, err = config.Load(buildManifest)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", buildManifest, err)
		}
	} else if cmd.Flags().Changed("config") {
		return fmt.Errorf("manifest %s not found", buildManifest)
	}

	p, err := cfg.Platform()
	if err != nil {
		return err
	}

	b, err := luabuild.TryNew(p)
	if err != nil {
		return err
	}
	cfg.Apply(b)

	switch {
	case cfg.Source != nil && cfg.Source.Dir != "":
		if _, err := b.TryAddLuaSrc(cfg.Source.Dir); err != nil {
			return fmt.Errorf("failed to read Lua sources from %s: %w", cfg.Source.Dir, err)
		}
	default:
		root, err := luadist.Root(".")
		if err != nil {
			return err
		}
		log.Infof("using bundled Lua %s", luadist.Version(root))
		if _, err := b.TryAddBundledSrc(root); err != nil {
			return fmt.Errorf("failed to read bundled Lua sources: %w", err)
		}
	}

	output := cfg.OutputName()
	if err := b.TryCompile(output); err != nil {
		return err
	}
	log.Infof("built %s", output)
	return nil
}
