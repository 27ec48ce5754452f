package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/gdtoolkit/sema/cache"
	"github.com/gdtoolkit/sema/config"
	"github.com/gdtoolkit/sema/diagnostics"
	"github.com/gdtoolkit/sema/infer"
	"github.com/gdtoolkit/sema/project"
	"github.com/gdtoolkit/sema/runtimeinfo"
)

// lintRequest bundles the resolved command-line and config state a
// lint run needs. main.go builds one from cobra flags.
type lintRequest struct {
	projectRoot   string
	configPath    string
	engineVersion string
	cacheDir      string
	useColor      bool
	stdout        io.Writer
	stderr        io.Writer
}

// runLint scans the project, diagnoses every file, writes a block
// report per file to stdout, and returns 1 if any file carries an
// error-severity diagnostic (0 otherwise), the usual exit-code
// convention for a lint front-end.
func runLint(req lintRequest) (int, error) {
	opts, err := loadOptions(req.configPath)
	if err != nil {
		return 1, fmt.Errorf("load config: %w", err)
	}

	snap, err := project.Scan(req.projectRoot)
	if err != nil {
		return 1, fmt.Errorf("scan project %s: %w", req.projectRoot, err)
	}

	base, err := runtimeinfo.NewBuiltinProvider(req.engineVersion)
	if err != nil {
		return 1, fmt.Errorf("build runtime provider: %w", err)
	}

	var provider runtimeinfo.Provider = base
	if opts.EnableResourceChecks {
		provider = project.NewProviderWithProject(base, snap)
	}

	var store *cache.Store[[]diagnostics.Diagnostic]
	if req.cacheDir != "" {
		store, err = cache.NewStore[[]diagnostics.Diagnostic](req.cacheDir)
		if err != nil {
			fmt.Fprintf(req.stderr, "%s\n", colorize(fmt.Sprintf("warning: cache disabled: %v", err), colorYellow, req.useColor))
		}
	}

	providerIdentity := fmt.Sprintf("%s/resources=%t", req.engineVersion, opts.EnableResourceChecks)
	optionsDigest := fmt.Sprintf("%+v", opts)

	hadError := false
	for _, f := range sortedFiles(snap) {
		diags, err := diagnoseFile(f, snap, provider, opts, store, optionsDigest, providerIdentity)
		if err != nil {
			fmt.Fprintf(req.stderr, "%s\n", colorize(fmt.Sprintf("%s: %v", f.Path, err), colorRed, req.useColor))
			hadError = true
			continue
		}
		if err := diagnostics.WriteBlockReport(req.stdout, f.Path, diags, opts.ExternalLineBase, opts.ExternalColumnBase, nil); err != nil {
			return 1, fmt.Errorf("write report for %s: %w", f.Path, err)
		}
		for _, d := range diags {
			if d.Severity == diagnostics.SeverityError {
				hadError = true
			}
		}
	}

	if hadError {
		return 1, nil
	}
	return 0, nil
}

func loadOptions(path string) (config.Options, error) {
	if path == "" {
		return config.Default(), nil
	}
	opts, err := config.Load(path)
	if err != nil {
		return config.Options{}, err
	}
	return *opts, nil
}

func diagnoseFile(
	f *project.File,
	snap *project.Snapshot,
	provider runtimeinfo.Provider,
	opts config.Options,
	store *cache.Store[[]diagnostics.Diagnostic],
	optionsDigest, providerIdentity string,
) ([]diagnostics.Diagnostic, error) {
	if f.Tree == nil {
		return nil, fmt.Errorf("no tree")
	}

	var fp cache.Fingerprint
	haveFP := false
	if store != nil {
		var err error
		fp, err = cache.New(cache.SourceDigest(f.Text), optionsDigest, providerIdentity)
		if err != nil {
			return nil, fmt.Errorf("fingerprint: %w", err)
		}
		haveFP = true
		if cached, ok := store.Get(fp); ok {
			return cached, nil
		}
	}

	g := f.Graph
	if g == nil {
		return diagnostics.FromParseErrors(f.Path, f.ParseErrs), nil
	}
	engine := infer.NewEngine(g, provider)
	diags := diagnostics.Diagnose(f.Tree, g, engine, provider, opts.Diagnostics(), f.Path, f.ParseErrs)

	if haveFP && store != nil {
		if err := store.Put(fp, diags); err != nil {
			return nil, fmt.Errorf("cache put: %w", err)
		}
	}
	return diags, nil
}

func sortedFiles(snap *project.Snapshot) []*project.File {
	files := snap.Files()
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}
