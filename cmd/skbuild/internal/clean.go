package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goplus/skbuild/internal/pipeline"
	"github.com/goplus/skbuild/internal/platform"
)

var cleanCmd = &cobra.Command{
	Use:       "clean [platform]",
	Short:     "Remove generator output trees",
	Long:      "Remove the gn/ninja output trees under tmp/skia. With a platform, only that platform's trees are removed.",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: platformNames(),
	RunE:      runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	var only *platform.Platform
	if len(args) == 1 {
		p, err := platform.Parse(args[0])
		if err != nil {
			return err
		}
		only = &p
	}
	s, err := newSession()
	if err != nil {
		return err
	}
	p, err := pipeline.New(s.layout, s.cfg, newRunner(nil), s.log)
	if err != nil {
		return err
	}
	removed, err := p.Clean(only)
	if err != nil {
		return err
	}
	for _, name := range removed {
		fmt.Fprintln(cmd.OutOrStdout(), "removed", name)
	}
	return nil
}
