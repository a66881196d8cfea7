package rules

import (
	"path"
	"strings"
)

// Reason identifies which rule produced a decision.
type Reason uint8

const (
	// ReasonNone is the unset placeholder.
	ReasonNone Reason = iota
	// ReasonExplicitInclude: matched an explicit include path.
	ReasonExplicitInclude
	// ReasonExplicitExclude: matched an explicit exclude path or pattern.
	ReasonExplicitExclude
	// ReasonProjectNotIncluded: include-projects list is set and the file's
	// project is not on it.
	ReasonProjectNotIncluded
	// ReasonProjectExcluded: the file's project is on the exclude list.
	ReasonProjectExcluded
	// ReasonVenv: inside a virtualenv while virtualenv inclusion is off.
	ReasonVenv
	// ReasonVenvEssential: one of the few files kept from inside a
	// virtualenv when inclusion is on.
	ReasonVenvEssential
	// ReasonTooLarge: file exceeds the size cap.
	ReasonTooLarge
	// ReasonEssentialFile: extension or filename in the development set.
	ReasonEssentialFile
	// ReasonModuleDir: file lives in a detected module directory.
	ReasonModuleDir
	// ReasonDefault: nothing matched; files are excluded by default.
	ReasonDefault
)

// String returns a short label for logs and listings.
func (r Reason) String() string {
	switch r {
	case ReasonExplicitInclude:
		return "explicit include"
	case ReasonExplicitExclude:
		return "explicit exclude"
	case ReasonProjectNotIncluded:
		return "project not included"
	case ReasonProjectExcluded:
		return "project excluded"
	case ReasonVenv:
		return "virtualenv"
	case ReasonVenvEssential:
		return "virtualenv essential"
	case ReasonTooLarge:
		return "too large"
	case ReasonEssentialFile:
		return "essential file"
	case ReasonModuleDir:
		return "module directory"
	case ReasonDefault:
		return "default"
	}
	return "unknown"
}

// Decision is the classifier verdict for one file.
type Decision struct {
	Include bool
	Reason  Reason
}

// FileMeta carries everything the classifier needs to know about one file.
// The walker fills it in; the classifier itself never touches the
// filesystem.
type FileMeta struct {
	// RelPath is the slash-separated path relative to the projects root,
	// starting with the project name.
	RelPath string
	// Size in bytes.
	Size int64
	// InModuleDir is true when the file's directory carries a package
	// marker (__init__.py).
	InModuleDir bool
}

// Classify decides whether one file belongs in the backup.
//
// Decision policy, first match wins:
//  1. explicit include path (beats everything, including the size cap)
//  2. explicit exclude path or pattern
//  3. project missing from a non-empty include-projects list
//  4. project on the exclude-projects list
//  5. inside a virtualenv (excluded unless virtualenv inclusion is on, in
//     which case only the activation essentials survive)
//  6. size cap
//  7. essential development extension or filename
//  8. detected module directory
//  9. excluded by default
func (r *RuleSet) Classify(m FileMeta) Decision {
	rel := path.Clean(strings.TrimPrefix(m.RelPath, "/"))

	if matchesPathList(rel, r.IncludePaths) {
		return Decision{Include: true, Reason: ReasonExplicitInclude}
	}

	if matchesPathList(rel, r.ExcludePaths) {
		return Decision{Reason: ReasonExplicitExclude}
	}
	for _, pat := range r.ExcludePatterns {
		if pat != "" && strings.Contains(rel, pat) {
			return Decision{Reason: ReasonExplicitExclude}
		}
	}

	project := projectOf(rel)
	if len(r.IncludeProjects) > 0 && !containsString(r.IncludeProjects, project) {
		return Decision{Reason: ReasonProjectNotIncluded}
	}
	if containsString(r.ExcludeProjects, project) {
		return Decision{Reason: ReasonProjectExcluded}
	}

	if inVenv(rel) {
		if !r.IncludeVenv {
			return Decision{Reason: ReasonVenv}
		}
		if m.Size <= r.MaxSize && isVenvEssential(rel) {
			return Decision{Include: true, Reason: ReasonVenvEssential}
		}
		return Decision{Reason: ReasonDefault}
	}

	if m.Size > r.MaxSize {
		return Decision{Reason: ReasonTooLarge}
	}

	if r.isEssential(path.Base(rel)) {
		return Decision{Include: true, Reason: ReasonEssentialFile}
	}

	if r.AutoModules && m.InModuleDir {
		return Decision{Include: true, Reason: ReasonModuleDir}
	}

	return Decision{Reason: ReasonDefault}
}

// isEssential reports whether a filename belongs to the development set.
func (r *RuleSet) isEssential(name string) bool {
	if containsString(r.IncludeFilenames, name) {
		return true
	}
	ext := strings.ToLower(path.Ext(name))
	return ext != "" && containsString(r.IncludeExtensions, ext)
}

// matchesPathList reports whether rel equals an entry or lives under one.
// Entries use slash separators relative to the projects root.
func matchesPathList(rel string, list []string) bool {
	for _, entry := range list {
		entry = strings.Trim(strings.ReplaceAll(entry, `\`, "/"), "/")
		if entry == "" {
			continue
		}
		if rel == entry || strings.HasPrefix(rel, entry+"/") {
			return true
		}
	}
	return false
}

// projectOf returns the top-level path component.
func projectOf(rel string) string {
	if i := strings.IndexByte(rel, '/'); i >= 0 {
		return rel[:i]
	}
	return rel
}

// inVenv reports whether any path component is a virtualenv root.
func inVenv(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if IsVenvDir(part) {
			return true
		}
	}
	return false
}

// isVenvEssential matches the files worth keeping from inside a
// virtualenv: pyvenv.cfg and requirements.txt anywhere, activation scripts
// under bin/ or Scripts/.
func isVenvEssential(rel string) bool {
	base := path.Base(rel)
	if base == "pyvenv.cfg" || base == "requirements.txt" {
		return true
	}
	if _, ok := venvActivationScripts[base]; !ok {
		return false
	}
	dir := path.Base(path.Dir(rel))
	return dir == "bin" || dir == "Scripts"
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
