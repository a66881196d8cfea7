// Package pycharm locates the PyCharm projects directory.
package pycharm

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

var projectDirPatterns = []*regexp.Regexp{
	regexp.MustCompile(`PROJECT_DIRECTORY="([^"]+)"`),
	regexp.MustCompile(`<option name="defaultProject[^>]+>([^<]+)`),
	regexp.MustCompile(`<entry key="project.default.dir" value="([^"]+)"`),
}

// optionFiles are the IDE config files that may record a projects
// directory.
var optionFiles = []string{"options.xml", "other.xml", "recentProjects.xml", "workspace.xml"}

// DefaultProjectsDir determines the PyCharm projects directory:
// the PYCHARM_PROJECTS environment variable, then directories recorded in
// JetBrains IDE configuration, then ~/PycharmProjects (created when
// missing).
func DefaultProjectsDir() string {
	if dir := os.Getenv("PYCHARM_PROJECTS"); dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			logrus.Debugf("projects dir from PYCHARM_PROJECTS: %s", dir)
			return dir
		}
	}

	if dir := fromIDEConfig(); dir != "" {
		logrus.Debugf("projects dir from IDE config: %s", dir)
		return dir
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "PycharmProjects"
	}
	fallback := filepath.Join(home, "PycharmProjects")
	if info, err := os.Stat(fallback); err == nil && info.IsDir() {
		return fallback
	}
	logrus.Debugf("creating default projects dir: %s", fallback)
	_ = os.MkdirAll(fallback, 0o755)
	return fallback
}

// configRoots returns the platform's JetBrains configuration directories.
func configRoots() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return []string{filepath.Join(appdata, "JetBrains")}
		}
		return nil
	case "darwin":
		return []string{
			filepath.Join(home, "Library", "Application Support", "JetBrains"),
			filepath.Join(home, "Library", "Preferences"),
		}
	default:
		roots := []string{filepath.Join(home, ".config", "JetBrains")}
		// Older installs keep ~/.PyCharm<version>/config.
		matches, _ := filepath.Glob(filepath.Join(home, ".PyCharm*"))
		for _, m := range matches {
			roots = append(roots, filepath.Join(m, "config"))
		}
		return roots
	}
}

func fromIDEConfig() string {
	for _, root := range configRoots() {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() || !strings.Contains(strings.ToLower(e.Name()), "pycharm") {
				continue
			}
			optionsDir := filepath.Join(root, e.Name(), "options")
			for _, name := range optionFiles {
				if dir := scanOptionFile(filepath.Join(optionsDir, name)); dir != "" {
					return dir
				}
			}
		}
	}
	return ""
}

func scanOptionFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	for _, re := range projectDirPatterns {
		for _, m := range re.FindAllStringSubmatch(string(data), -1) {
			candidate := strings.TrimSpace(m[1])
			info, err := os.Stat(candidate)
			if err != nil || !info.IsDir() {
				continue
			}
			// Only trust directories that actually hold something.
			if entries, err := os.ReadDir(candidate); err == nil && len(entries) > 0 {
				return candidate
			}
		}
	}
	return ""
}
