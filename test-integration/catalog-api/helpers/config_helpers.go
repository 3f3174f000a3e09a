package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/onsi/gomega"
)

// CategorySpec describes one category of a generated config
type CategorySpec struct {
	Name string
	// Endpoint selects an api source, Path a file source
	Endpoint   string
	Path       string
	TTL        string
	AllowEmpty bool
}

// WriteConfigYAML writes a configuration file for storageType with its data
// under dataDir, and returns its path
func WriteConfigYAML(dir, storageType, dataDir string, categories ...CategorySpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "cache:\n  ttl: 24h\nstorage:\n  type: %s\n  dataDir: %s\ncategories:\n", storageType, dataDir)

	for _, cat := range categories {
		fmt.Fprintf(&b, "  - name: %s\n", cat.Name)
		if cat.TTL != "" {
			fmt.Fprintf(&b, "    ttl: %s\n", cat.TTL)
		}
		if cat.AllowEmpty {
			b.WriteString("    allowEmpty: true\n")
		}
		b.WriteString("    source:\n")
		if cat.Endpoint != "" {
			fmt.Fprintf(&b, "      type: api\n      api:\n        endpoint: %s\n        timeout: 2s\n", cat.Endpoint)
		} else {
			fmt.Fprintf(&b, "      type: file\n      file:\n        path: %s\n", cat.Path)
		}
	}

	path := filepath.Join(dir, "config.yaml")
	gomega.Expect(os.WriteFile(path, []byte(b.String()), 0600)).To(gomega.Succeed())
	return path
}
