package internal

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goplus/skbuild/internal/platform"
)

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List supported platforms and their architectures",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listPlatforms(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(platformsCmd)
}

func platformNames() []string {
	names := make([]string, len(platform.All))
	for i, p := range platform.All {
		names[i] = p.String()
	}
	return names
}

func listPlatforms(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PLATFORM\tVALID ARCHS\tDEFAULT")
	for _, p := range platform.All {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p, strings.Join(p.ValidArchs(), ","), strings.Join(p.DefaultArchs(), ","))
	}
	return tw.Flush()
}
