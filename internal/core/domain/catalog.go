package domain

// Leaf task names.
const (
	TaskHTMLCopy   = "html:copy"
	TaskCSSCompile = "css:compile"
	TaskJSCompile  = "js:compile"
	TaskJSLibs     = "js:libs"
	TaskIconMinify = "icon:minify"
	TaskIconFonts  = "icon:fonts"
	TaskServer     = "server"
)

// Entry names exposed on the command line.
const (
	EntryDefault = "default"
	EntryServe   = "serve"
	EntryBuild   = "build"
	EntryHTML    = "html"
	EntryCSS     = "css"
	EntryJS      = "js"
	EntryIcon    = "icon"
	EntryWatch   = "watch"
)

// Output file names.
const (
	StyleBundleName  = "styles.min.css"
	ScriptBundleName = "scripts.min.js"
	IconBundleName   = "fonts.min.css"
	IconMapsDir      = "maps"
)

// ScriptOrder is the load order of the bundled scripts, relative to the script source directory.
var ScriptOrder = []string{
	"components/components-form-require.js",
	"components/components-form-validation.js",
	"components/components-form-validation-ckeditor.js",
	"components/components-message.js",
	"page/page-account.js",
	"scripts.js",
}

var buildSteps = []string{
	TaskHTMLCopy,
	TaskCSSCompile,
	TaskJSCompile,
	TaskJSLibs,
	TaskIconMinify,
	TaskIconFonts,
}

// Entries returns the command-surface tasks in the order they are listed.
func Entries() []Task {
	return []Task{
		{
			Name:        EntryDefault,
			Kind:        KindSeries,
			Description: "Build every asset, then serve and watch",
			Steps:       append(append([]string{}, buildSteps...), TaskServer),
		},
		{
			Name:        EntryServe,
			Kind:        KindSeries,
			Description: "Serve dist with live reload and watch sources",
			Steps:       []string{TaskServer},
		},
		{
			Name:        EntryBuild,
			Kind:        KindSeries,
			Description: "Build every asset once",
			Steps:       append([]string{}, buildSteps...),
		},
		{
			Name:        EntryHTML,
			Kind:        KindSeries,
			Description: "Copy HTML pages",
			Steps:       []string{TaskHTMLCopy},
		},
		{
			Name:        EntryCSS,
			Kind:        KindSeries,
			Description: "Compile the stylesheet",
			Steps:       []string{TaskCSSCompile},
		},
		{
			Name:        EntryJS,
			Kind:        KindSeries,
			Description: "Bundle scripts and copy script libraries",
			Steps:       []string{TaskJSCompile, TaskJSLibs},
		},
		{
			Name:        EntryIcon,
			Kind:        KindSeries,
			Description: "Minify the icon stylesheet and copy its fonts",
			Steps:       []string{TaskIconMinify, TaskIconFonts},
		},
		{
			Name:        EntryWatch,
			Kind:        KindSeries,
			Description: "Watch sources and reload browsers",
			Steps:       []string{TaskServer},
		},
	}
}

// Leaves returns the chain and serve tasks for a project laid out as p describes.
func Leaves(p *Paths) []Task {
	scriptDir := p.Dir(CategoryScript, RoleSource)
	scripts := make([]string, 0, len(ScriptOrder))
	for _, rel := range ScriptOrder {
		scripts = append(scripts, p.Abs(scriptDir+rel))
	}

	styleSource := p.Abs(p.Dir(CategoryStyle, RoleSource) + "styles.sass")
	iconSource := p.Abs(p.Dir(CategoryIcon, RoleSource) + "style.css")

	return []Task{
		{
			Name:        TaskHTMLCopy,
			Kind:        KindChain,
			Description: "Copy HTML pages into dist",
			Chain: CopyFiles(
				p.Abs(p.Glob(CategoryHTML, RoleSource)),
				p.Abs(p.Dir(CategoryHTML, RoleDist)),
			),
		},
		{
			Name:        TaskCSSCompile,
			Kind:        KindChain,
			Description: "Compile, prefix and minify the Sass stylesheet",
			Chain: &Chain{
				Source: Source{Glob: styleSource, Base: p.Abs(p.Dir(CategoryStyle, RoleSource))},
				Stages: []Stage{
					{Kind: StageSourceMapsInit, LoadMaps: true},
					{Kind: StageCompileStyle},
					{Kind: StagePrefix},
					{Kind: StageWriteMaps},
					{Kind: StageLineEndings},
					{Kind: StageRename, Arg: StyleBundleName},
				},
				Dest: p.Abs(p.Dir(CategoryStyle, RoleDist)),
			},
		},
		{
			Name:        TaskJSCompile,
			Kind:        KindChain,
			Description: "Transpile, concatenate and minify scripts",
			Chain: &Chain{
				Source: Source{List: scripts, Base: p.Abs(scriptDir)},
				Stages: []Stage{
					{Kind: StageTranspile},
					{Kind: StageConcat, Arg: ScriptBundleName},
					{Kind: StageMinifyScript},
					{Kind: StageLineEndings},
				},
				Dest: p.Abs(p.Dir(CategoryScript, RoleDist)),
			},
		},
		{
			Name:        TaskJSLibs,
			Kind:        KindChain,
			Description: "Copy script libraries",
			Chain: CopyDirectory(
				p.Abs(scriptDir+"libs"),
				p.Abs(p.Dir(CategoryScript, RoleDist)+"libs"),
			),
		},
		{
			Name:        TaskIconMinify,
			Kind:        KindChain,
			Description: "Minify the icon-font stylesheet",
			Chain: &Chain{
				Source: Source{Glob: iconSource, Base: p.Abs(p.Dir(CategoryIcon, RoleSource))},
				Stages: []Stage{
					{Kind: StageSourceMapsInit, LoadMaps: true, LargeFile: true},
					{Kind: StageMinifyStyle},
					{Kind: StageWriteMaps, Arg: IconMapsDir},
					{Kind: StageLineEndings},
					{Kind: StageRename, Arg: IconBundleName},
				},
				Dest: p.Abs(p.Dir(CategoryIcon, RoleDist)),
			},
		},
		{
			Name:        TaskIconFonts,
			Kind:        KindChain,
			Description: "Copy icon fonts",
			Chain: CopyDirectory(
				p.Abs(p.Dir(CategoryIcon, RoleSource)+"fonts"),
				p.Abs(p.Dir(CategoryIcon, RoleDist)+"fonts"),
			),
		},
		{
			Name:        TaskServer,
			Kind:        KindServe,
			Description: "Serve dist with live reload and watch sources",
		},
	}
}

// NewCatalog builds and validates the full task graph for p.
func NewCatalog(p *Paths) (*Graph, error) {
	g := NewGraph()
	for _, tasks := range [][]Task{Leaves(p), Entries()} {
		for i := range tasks {
			if err := g.AddTask(&tasks[i]); err != nil {
				return nil, err
			}
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// WatchBinding ties a set of absolute glob patterns to what happens when they change.
// A binding either re-runs Entry or, when Reload is set, reloads connected browsers.
type WatchBinding struct {
	Name     string
	Patterns []string
	Entry    string
	Reload   bool
}

// WatchBindings returns the bindings registered while serving: one rebuild binding per
// source category and a single reload binding over every distribution glob.
func WatchBindings(p *Paths) []WatchBinding {
	entries := map[Category]string{
		CategoryHTML:   EntryHTML,
		CategoryStyle:  EntryCSS,
		CategoryScript: EntryJS,
		CategoryIcon:   EntryIcon,
	}

	bindings := make([]WatchBinding, 0, len(entries)+1)
	reload := WatchBinding{Name: "reload", Reload: true}
	for _, c := range Categories() {
		bindings = append(bindings, WatchBinding{
			Name:     c.String(),
			Patterns: []string{p.Abs(p.Glob(c, RoleSource))},
			Entry:    entries[c],
		})
		reload.Patterns = append(reload.Patterns, p.Abs(p.Glob(c, RoleDist)))
	}
	return append(bindings, reload)
}
