// Package rules holds the backup rule set and the file selection policy.
package rules

import "strings"

// RuleSet is the full set of selection parameters governing one backup run.
// A named, persisted RuleSet is a profile. Resolution happens in layers:
// hard-coded defaults, then a profile when one is named, then explicitly
// supplied CLI flags, each layer overriding the previous one.
type RuleSet struct {
	ProjectsDir string `json:"projects_dir"`
	Output      string `json:"output"`

	// IncludeExtensions and IncludeFilenames define the essential
	// development file set. Extensions are matched lowercase with the
	// leading dot, filenames exactly.
	IncludeExtensions []string `json:"include_extensions"`
	IncludeFilenames  []string `json:"include_filenames"`

	// ExcludePatterns are substring patterns matched against directory
	// names and relative file paths.
	ExcludePatterns []string `json:"exclude_patterns"`
	// IncludePaths are relative paths (exact or prefix) that are always
	// backed up, bypassing every other rule including the size cap.
	IncludePaths []string `json:"include_paths"`
	// ExcludePaths are relative paths (exact or prefix) that are never
	// backed up unless listed in IncludePaths.
	ExcludePaths []string `json:"exclude_paths"`

	IncludeProjects []string `json:"include_projects"`
	ExcludeProjects []string `json:"exclude_projects"`

	// MaxSize is the per-file size cap in bytes. It does not apply to
	// files matched by IncludePaths.
	MaxSize int64 `json:"max_size_bytes"`

	IncludeVenv bool `json:"include_venv"`
	AutoModules bool `json:"auto_include_modules"`

	// Compression is the zip deflate level, 0-9. 0 stores entries
	// without compression.
	Compression int `json:"compression_level"`

	PostActions []string `json:"post_backup_actions"`
}

// DefaultMaxSize is the per-file cap applied when none is configured.
const DefaultMaxSize = 20 * 1024 * 1024

var defaultExtensions = []string{
	".py", ".json", ".yml", ".yaml", ".md", ".txt", ".ini", ".cfg",
	".toml", ".html", ".css", ".js", ".xml", ".iml", ".gitignore",
	".sql", ".rst", ".sh", ".bat", ".ps1", ".ipynb", ".java", ".properties",
	".gradle", ".dart", ".kt", ".kts", ".tsx", ".ts", ".jsx",
}

var defaultFilenames = []string{
	"requirements.txt", "Pipfile", "Pipfile.lock", "pyproject.toml",
	"setup.py", "setup.cfg", "README.md", ".env.example", ".gitignore",
	"Dockerfile", "docker-compose.yml", "Makefile", "LICENSE", ".flake8",
	"poetry.lock", "package.json", "package-lock.json", "tsconfig.json",
	".prettierrc", ".eslintrc", "tox.ini", ".coveragerc", ".babelrc",
	"webpack.config.js", "vue.config.js", "angular.json", "build.gradle",
}

// defaultExcludedDirs are directory names pruned from every walk unless an
// include path reaches into them.
var defaultExcludedDirs = map[string]struct{}{
	"__pycache__": {}, ".git": {}, ".idea": {}, "dist": {}, "build": {},
	"node_modules": {}, "data": {}, "logs": {}, "temp": {}, "tmp": {},
	".pytest_cache": {}, ".mypy_cache": {}, ".ipynb_checkpoints": {},
	"output": {}, "downloads": {}, "coverage": {}, "htmlcov": {},
}

// venvDirs are directory names treated as virtualenv roots.
var venvDirs = map[string]struct{}{
	"venv": {}, ".venv": {}, "env": {}, ".env": {}, "virtualenv": {},
}

// venvActivationScripts are the activation scripts taken from a
// virtualenv's bin/ or Scripts/ directory when virtualenv inclusion is
// enabled.
var venvActivationScripts = map[string]struct{}{
	"activate": {}, "activate.bat": {}, "Activate.ps1": {},
}

// Default returns the rule set used when neither a profile nor flags
// supply a value.
func Default() RuleSet {
	return RuleSet{
		IncludeExtensions: append([]string(nil), defaultExtensions...),
		IncludeFilenames:  append([]string(nil), defaultFilenames...),
		MaxSize:           DefaultMaxSize,
		AutoModules:       true,
		Compression:       9,
	}
}

// IsExcludedDir reports whether a directory name should be pruned from the
// walk: default exclusions, virtualenv roots (unless included), and custom
// exclude patterns.
func (r *RuleSet) IsExcludedDir(name string) bool {
	if _, ok := defaultExcludedDirs[name]; ok {
		return true
	}
	if !r.IncludeVenv {
		if _, ok := venvDirs[name]; ok {
			return true
		}
	}
	for _, pat := range r.ExcludePatterns {
		if pat != "" && strings.Contains(name, pat) {
			return true
		}
	}
	return false
}

// IsVenvDir reports whether a directory name is a virtualenv root.
func IsVenvDir(name string) bool {
	_, ok := venvDirs[name]
	return ok
}
