package internal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/goplus/skbuild/internal/logging"
	"github.com/goplus/skbuild/internal/pipeline"
	"github.com/goplus/skbuild/internal/toolexec"
)

var (
	buildConfig       string
	buildArchs        string
	buildBranch       string
	buildVariant      string
	buildShallow      bool
	buildZipAll       bool
	buildCleanup      bool
	buildExcludeDeps  bool
	buildPatchEmsdk   bool
	buildPatchDawnIOS bool
	buildVerbose      bool
)

var buildCmd = &cobra.Command{
	Use:   "build <mac|ios|win|linux|wasm|xcframework>",
	Short: "Build Skia for a platform",
	Long: `Build Skia for a platform.

The source tree is cloned or updated under the base directory, dependencies
are synced and every requested architecture is generated with gn, compiled
with ninja and collected into <platform>-<variant>/lib. "xcframework" builds
mac universal and ios x86_64/arm64 and combines them into Skia.xcframework.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: append(platformNames(), pipeline.XCFramework),
	RunE:      runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.StringVar(&buildConfig, "config", "", "Build configuration: Release or Debug (default Release)")
	f.StringVar(&buildArchs, "archs", "", "Comma separated architectures (default: the platform's defaults)")
	f.StringVar(&buildBranch, "branch", "", "Skia branch to build (default from the configuration file)")
	f.StringVar(&buildVariant, "variant", "", "Build variant: cpu or gpu (default gpu)")
	f.BoolVar(&buildShallow, "shallow", false, "Use a depth 1 clone/fetch of Skia")
	f.BoolVar(&buildZipAll, "zip-all", false, "Zip every platform's libraries and the headers after the build")
	f.BoolVar(&buildCleanup, "cleanup", false, "Remove the generator output trees after the build")
	f.BoolVar(&buildExcludeDeps, "exclude-deps", false, "Comment out unneeded entries in Skia's DEPS before syncing")
	f.BoolVar(&buildPatchEmsdk, "patch-emsdk", false, "Neutralize bin/activate-emsdk before syncing")
	f.BoolVar(&buildPatchDawnIOS, "patch-dawn-ios", false, "Patch Dawn for iOS simulator support before syncing")
	f.BoolVarP(&buildVerbose, "verbose", "v", false, "Stream tool output instead of showing a progress bar")
	rootCmd.AddCommand(buildCmd)
}

// splitArchs parses the --archs value. Empty items are dropped.
func splitArchs(s string) []string {
	var archs []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			archs = append(archs, a)
		}
	}
	return archs
}

func buildInput(name string) pipeline.Input {
	return pipeline.Input{
		Platform:     name,
		Config:       buildConfig,
		Variant:      buildVariant,
		Archs:        splitArchs(buildArchs),
		Branch:       buildBranch,
		Shallow:      buildShallow,
		ZipAll:       buildZipAll,
		Cleanup:      buildCleanup,
		ExcludeDeps:  buildExcludeDeps,
		PatchEmsdk:   buildPatchEmsdk,
		PatchDawnIOS: buildPatchDawnIOS,
	}
}

// ignoredFlags names the flags that were set but are overridden by the
// xcframework flow, which always builds Release and fixed architectures.
func ignoredFlags(req pipeline.Request) []string {
	if !req.XCFramework {
		return nil
	}
	var names []string
	if buildConfig != "" && buildConfig != req.Config.String() {
		names = append(names, "config")
	}
	if buildArchs != "" {
		names = append(names, "archs")
	}
	return names
}

// newRunner returns the tool runner. A non-nil stream receives the tools'
// combined output as it is produced.
func newRunner(stream io.Writer) toolexec.Runner {
	opts := []toolexec.Option{toolexec.WithEnv(pipeline.ToolEnv...)}
	if stream != nil {
		opts = append(opts, toolexec.WithOutput(stream, stream))
	}
	return toolexec.New(opts...)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	req, err := pipeline.NewRequest(buildInput(args[0]))
	if err != nil {
		return err
	}
	s, err := newSession()
	if err != nil {
		return err
	}

	for _, name := range ignoredFlags(req) {
		s.log.Warn("flag has no effect for xcframework builds", "flag", "--"+name)
	}

	var (
		runner  toolexec.Runner
		options []pipeline.Option
	)
	if buildVerbose {
		out := logging.NewPrefixWriter("  | ", os.Stderr)
		defer out.Flush()
		runner = newRunner(out)
	} else {
		runner = newRunner(nil)
		if isTerminal(os.Stderr) {
			options = append(options, pipeline.WithProgress(os.Stderr), pipeline.WithFlagOutput(io.Discard))
		}
	}

	p, err := pipeline.New(s.layout, s.cfg, runner, s.log, options...)
	if err != nil {
		return err
	}
	res, err := p.Run(cmd.Context(), req)
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), args[0], res)
	return nil
}

func printResult(w io.Writer, name string, res *pipeline.Result) {
	green := color.New(color.FgGreen, color.Bold)
	green.Fprintf(w, "Build for %s completed successfully\n", name)
	if res.Revision != "" {
		fmt.Fprintf(w, "  revision: %s\n", res.Revision)
	}
	fmt.Fprintf(w, "  build id: %s\n", res.BuildID)
	for _, s := range res.Summaries {
		fmt.Fprintf(w, "  summary:  %s\n", s)
	}
	if res.Archive != "" {
		fmt.Fprintf(w, "  archive:  %s\n", res.Archive)
	}
}
