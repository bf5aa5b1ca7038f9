package internal

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "luabuild",
	Short: "luabuild compiles Lua 5.4 into a static library",
	Long:  `luabuild configures a C toolchain for the target platform and compiles Lua 5.4 into an embeddable static library.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
