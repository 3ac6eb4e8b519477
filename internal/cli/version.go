package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ranveersingh1113/Bharat-Biz-Agent/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of bizagent",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.Info())
		},
	}
}
