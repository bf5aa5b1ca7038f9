package internal

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lunka/luabuild/platform"
	"github.com/lunka/luabuild/x/cc"
)

var platformsCmd = &cobra.Command{
	Use:   "platforms [triple]",
	Short: "List known platforms or resolve a target triple",
	Long:  `Platforms lists every known platform with its defines. With a triple argument it resolves that triple instead.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlatforms,
}

func init() {
	rootCmd.AddCommand(platformsCmd)
}

func runPlatforms(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		p := platform.FromTargetTriple(args[0])
		if p == nil {
			return fmt.Errorf("no known platform for target triple %q", args[0])
		}
		fmt.Printf("%s -> %s\n", args[0], strings.Join(p.Defines(), " "))
		return nil
	}
	fmt.Printf("current triple: %s\n", cc.CurrentTriple())
	for _, known := range platform.Known {
		fmt.Printf("%-8s %s\n", known.Name, strings.Join(known.Platform.Defines(), " "))
	}
	return nil
}
