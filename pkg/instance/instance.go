package instance

import (
	"os"
	"strings"
)

var idEnvVars = []string{"DYNO", "HOSTNAME"}

// GetID returns the identifier of this process for log correlation: the
// platform dyno name, then the host name, then "local".
func GetID() string {
	for _, key := range idEnvVars {
		if id := strings.TrimSpace(os.Getenv(key)); id != "" {
			return id
		}
	}
	return "local"
}
