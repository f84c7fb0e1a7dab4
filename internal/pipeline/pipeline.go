// Package pipeline sequences a complete build: repository preparation, one
// generate/build/collect pass per architecture, then packaging.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/goplus/skbuild/internal/build"
	"github.com/goplus/skbuild/internal/collect"
	"github.com/goplus/skbuild/internal/config"
	"github.com/goplus/skbuild/internal/gnargs"
	"github.com/goplus/skbuild/internal/pack"
	"github.com/goplus/skbuild/internal/patch"
	"github.com/goplus/skbuild/internal/platform"
	"github.com/goplus/skbuild/internal/summary"
	"github.com/goplus/skbuild/internal/toolexec"
	"github.com/goplus/skbuild/internal/vcs"
	"github.com/goplus/skbuild/x/apple"
)

const syncDepsScript = "tools/git-sync-deps"

// ToolEnv is added to the environment of every external tool. It keeps
// depot_tools from updating itself in the middle of a build.
var ToolEnv = []string{"DEPOT_TOOLS_UPDATE=0"}

// Pipeline runs builds against one base directory.
type Pipeline struct {
	layout build.Layout
	cfg    *config.Config
	opts   gnargs.Options
	runner toolexec.Runner
	vcs    vcs.VCS
	log    hclog.Logger

	driver    *build.Driver
	collector *collect.Collector
	packager  *pack.Packager

	check       func(names ...string) error
	prependPath func(dir string) error
	progress    io.Writer
	flagOut     io.Writer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithVCS replaces the git client.
func WithVCS(v vcs.VCS) Option {
	return func(p *Pipeline) { p.vcs = v }
}

// WithToolCheck replaces the PATH lookup of required executables.
func WithToolCheck(fn func(names ...string) error) Option {
	return func(p *Pipeline) { p.check = fn }
}

// WithPathUpdate replaces how the depot_tools directory is put on PATH.
func WithPathUpdate(fn func(dir string) error) Option {
	return func(p *Pipeline) { p.prependPath = fn }
}

// WithProgress shows a progress bar on w. nil disables it.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) { p.progress = w }
}

// WithFlagOutput sets where synthesized flag blocks are echoed.
func WithFlagOutput(w io.Writer) Option {
	return func(p *Pipeline) { p.flagOut = w }
}

// New returns a Pipeline rooted at layout.Base.
func New(layout build.Layout, cfg *config.Config, runner toolexec.Runner, log hclog.Logger, options ...Option) (*Pipeline, error) {
	opts, err := cfg.GNOptions()
	if err != nil {
		return nil, err
	}
	p := &Pipeline{
		layout:      layout,
		cfg:         cfg,
		opts:        opts,
		runner:      runner,
		vcs:         vcs.NewGitVCS(vcs.WithGitPath(cfg.Tools.Git)),
		log:         log,
		check:       toolexec.Check,
		prependPath: toolexec.PrependPath,
		flagOut:     os.Stderr,
	}
	for _, o := range options {
		o(p)
	}

	tools := apple.New(runner)
	tools.LipoBin(cfg.Tools.Lipo)
	tools.LibtoolBin(cfg.Tools.Libtool)
	tools.XcodebuildBin(cfg.Tools.Xcodebuild)

	p.driver = build.NewDriver(layout, opts, runner, log.Named("build"),
		build.WithGN(cfg.Tools.GN), build.WithNinja(cfg.Tools.Ninja), build.WithFlagOutput(p.flagOut))
	p.collector = collect.New(layout, opts.Unicode, tools, log.Named("collect"))
	p.packager = pack.New(layout, tools, log.Named("pack"))
	return p, nil
}

// Result describes a finished build.
type Result struct {
	BuildID   string
	Revision  string
	Summaries []string // summary files written
	Archive   string   // zip path, if one was created
}

func (p *Pipeline) tool(override, name string) string {
	if override != "" {
		return override
	}
	return name
}

// requiredTools lists the executables req needs once depot_tools is on PATH.
func (p *Pipeline) requiredTools(req Request) []string {
	t := p.cfg.Tools
	names := []string{p.tool(t.Ninja, "ninja")}
	if req.Fuses() {
		names = append(names, p.tool(t.Lipo, "lipo"))
	}
	if req.XCFramework {
		names = append(names, p.tool(t.Libtool, "libtool"), p.tool(t.Xcodebuild, "xcodebuild"))
	}
	return names
}

// Run executes req. The first failing step aborts the build; completed
// steps are not rolled back.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	res := &Result{BuildID: uuid.NewString()}
	log := p.log.With("build_id", res.BuildID)
	log.Info("starting build", "platform", req.Platform, "config", req.Config,
		"variant", req.Variant, "archs", req.Archs, "xcframework", req.XCFramework)

	archs := req.BuildArchs()
	bar := newProgress(p.progress, stepCount(req, archs))
	defer bar.finish()

	t := p.cfg.Tools
	python := p.tool(t.Python, "python3")
	if err := p.check(p.tool(t.Git, "git"), python); err != nil {
		return nil, err
	}

	bar.step("preparing depot_tools")
	if err := p.prepareDepotTools(ctx); err != nil {
		return nil, err
	}
	if err := p.check(p.requiredTools(req)...); err != nil {
		return nil, err
	}

	bar.step("syncing skia")
	branch := req.Branch
	if branch == "" {
		branch = p.cfg.Skia.Branch
	}
	log.Info("setting up skia repository", "branch", branch)
	if err := p.vcs.Sync(ctx, p.cfg.Skia.URL, branch, p.layout.SrcDir(), req.Shallow); err != nil {
		return nil, fmt.Errorf("sync skia: %w", err)
	}
	if err := p.applyPatches(req); err != nil {
		return nil, err
	}

	bar.step("syncing dependencies")
	log.Info("syncing deps")
	if err := p.runner.Run(ctx, p.layout.SrcDir(), python, syncDepsScript); err != nil {
		return nil, fmt.Errorf("sync deps: %w", err)
	}

	flags, err := p.buildAll(ctx, req, archs, bar)
	if err != nil {
		return nil, err
	}
	if req.Fuses() {
		bar.step("creating universal libraries")
		if err := p.collector.Universal(ctx, req.Variant, req.Config); err != nil {
			return nil, err
		}
	}

	// summaries are written per platform built
	built := []platformFlags{{req: req, flags: flags}}
	last := req
	if req.XCFramework {
		ios := req.ios()
		iosFlags, err := p.buildXCFramework(ctx, req, ios, bar)
		if err != nil {
			return nil, err
		}
		built = append(built, platformFlags{req: ios, flags: iosFlags})
		last = ios
	} else {
		bar.step("packaging headers")
		if err := p.packager.Headers(); err != nil {
			return nil, err
		}
	}

	if req.Variant == platform.GPU {
		first := last.Target(last.BuildArchs()[0])
		if err := p.packager.GeneratedHeaders(p.layout.OutDir(first)); err != nil {
			return nil, err
		}
	}

	bar.step("writing summary")
	if rev, err := p.vcs.Head(ctx, p.layout.SrcDir()); err != nil {
		log.Warn("cannot resolve skia revision", "error", err)
	} else {
		res.Revision = rev
	}
	for _, b := range built {
		path, err := p.writeSummary(b, res)
		if err != nil {
			return nil, err
		}
		res.Summaries = append(res.Summaries, path)
	}

	if req.ZipAll {
		bar.step("creating archive")
		path, err := p.packager.ZipAll(req.Variant)
		if err != nil {
			return nil, fmt.Errorf("create archive: %w", err)
		}
		res.Archive = path
	}

	if req.Cleanup {
		for _, b := range built {
			if err := p.collector.Clean(targets(b.req)...); err != nil {
				return nil, err
			}
		}
		log.Info("cleaned up output trees")
	}

	log.Info("build completed", "platform", last.Platform, "config", last.Config, "archs", last.BuildArchs())
	return res, nil
}

type platformFlags struct {
	req   Request
	flags []summary.Arch
}

func (p *Pipeline) prepareDepotTools(ctx context.Context) error {
	dir := p.layout.DepotToolsDir()
	if err := p.vcs.Clone(ctx, p.cfg.DepotTools.URL, dir); err != nil {
		return fmt.Errorf("clone depot_tools: %w", err)
	}
	return p.prependPath(dir)
}

func (p *Pipeline) applyPatches(req Request) error {
	if req.ExcludeDeps {
		n, err := patch.ExcludeDeps(p.layout.DepsFile(), p.cfg.ExcludeDeps)
		if err != nil {
			return fmt.Errorf("patch DEPS: %w", err)
		}
		p.log.Info("excluded dependencies from DEPS", "lines", n)
	}
	if req.PatchEmsdk {
		changed, err := patch.NeutralizeEmsdk(p.layout.ActivateEmsdk())
		if err != nil {
			return fmt.Errorf("patch activate-emsdk: %w", err)
		}
		p.log.Info("patched activate-emsdk", "changed", changed)
	}
	if req.PatchDawnIOS {
		results, err := patch.DawnIOS(p.layout.DawnDir())
		if err != nil {
			return fmt.Errorf("patch dawn: %w", err)
		}
		for _, r := range results {
			p.log.Info("dawn patch", "file", r.File, "applied", r.Applied)
		}
	}
	return nil
}

// buildAll runs generate, build and collect for each arch of req.
func (p *Pipeline) buildAll(ctx context.Context, req Request, archs []string, bar *progress) ([]summary.Arch, error) {
	var flags []summary.Arch
	for _, arch := range archs {
		bar.step(fmt.Sprintf("building %s %s", req.Platform, arch))
		t := req.Target(arch)
		args, err := p.driver.Build(ctx, t)
		if err != nil {
			return nil, err
		}
		if err := p.collector.Move(t); err != nil {
			return nil, err
		}
		flags = append(flags, summary.Arch{Name: arch, Flags: args})
	}
	return flags, nil
}

// buildXCFramework combines the mac universal library, builds and combines
// ios per arch, packages headers and creates the framework.
func (p *Pipeline) buildXCFramework(ctx context.Context, mac, ios Request, bar *progress) ([]summary.Arch, error) {
	bar.step("combining mac libraries")
	if err := p.collector.Combine(ctx, mac.Target(platform.Universal)); err != nil {
		return nil, err
	}

	var flags []summary.Arch
	for _, arch := range ios.BuildArchs() {
		bar.step("building ios " + arch)
		t := ios.Target(arch)
		args, err := p.driver.Build(ctx, t)
		if err != nil {
			return nil, err
		}
		if err := p.collector.Move(t); err != nil {
			return nil, err
		}
		if err := p.collector.Combine(ctx, t); err != nil {
			return nil, err
		}
		flags = append(flags, summary.Arch{Name: arch, Flags: args})
	}

	bar.step("packaging headers")
	if err := p.packager.Headers(); err != nil {
		return nil, err
	}
	bar.step("creating xcframework")
	if err := p.packager.XCFramework(ctx, mac.Variant); err != nil {
		return nil, err
	}
	return flags, nil
}

func (p *Pipeline) writeSummary(b platformFlags, res *Result) (string, error) {
	s := &summary.Summary{
		Platform: b.req.Platform,
		Variant:  b.req.Variant,
		Config:   b.req.Config,
		Revision: res.Revision,
		BuildID:  res.BuildID,
		Archs:    b.flags,
	}
	path := p.layout.SummaryPath(b.req.Platform, b.req.Variant)
	if err := s.Write(path); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}
	p.log.Info("gn args summary written", "path", path)
	return path, nil
}

func targets(req Request) []platform.Target {
	var ts []platform.Target
	for _, arch := range req.BuildArchs() {
		ts = append(ts, req.Target(arch))
	}
	return ts
}
