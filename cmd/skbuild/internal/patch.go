package internal

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/goplus/skbuild/internal/pipeline"
)

var patchCmd = &cobra.Command{
	Use:   "patch <" + strings.Join(pipeline.PatchNames, "|") + ">...",
	Short: "Apply source patches to an existing Skia checkout",
	Long: `Apply source patches to an existing Skia checkout.

  deps      comment out unneeded entries in DEPS
  emsdk     make bin/activate-emsdk a no-op
  dawn-ios  add iOS simulator support to Dawn's build scripts

Every patch can be applied repeatedly.`,
	Args:      cobra.MinimumNArgs(1),
	ValidArgs: pipeline.PatchNames,
	RunE:      runPatch,
}

func init() {
	rootCmd.AddCommand(patchCmd)
}

func runPatch(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	p, err := pipeline.New(s.layout, s.cfg, newRunner(nil), s.log)
	if err != nil {
		return err
	}
	for _, name := range args {
		if err := p.ApplyPatch(name); err != nil {
			return err
		}
	}
	return nil
}
