// Package postaction runs user-supplied commands after a successful
// backup.
package postaction

import (
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Expand substitutes the {backup_file}, {date} and {time} placeholders in
// one command template.
func Expand(template, backupFile string, now time.Time) string {
	r := strings.NewReplacer(
		"{backup_file}", backupFile,
		"{date}", now.Format("2006-01-02"),
		"{time}", now.Format("15-04-05"),
	)
	return r.Replace(template)
}

// Result reports one executed action.
type Result struct {
	Command string
	Output  string
	Err     error
}

// Run executes each action through the shell, in order. Failures are
// logged and reported but never abort the remaining actions; the completed
// backup is not reversed.
func Run(actions []string, backupFile string, now time.Time) []Result {
	results := make([]Result, 0, len(actions))
	for _, action := range actions {
		cmd := Expand(action, backupFile, now)
		logrus.Infof("executing post-backup action: %s", cmd)
		out, err := exec.Command("sh", "-c", cmd).CombinedOutput()
		if err != nil {
			logrus.Errorf("post-backup action failed: %s: %v", cmd, err)
		}
		results = append(results, Result{Command: cmd, Output: string(out), Err: err})
	}
	return results
}
