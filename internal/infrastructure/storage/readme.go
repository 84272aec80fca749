package storage

import (
	"fmt"
	"strings"
	"time"
)

const defaultDescription = "Project description"

// RenderReadme produces the initial README.md content for a freshly
// created repository
func RenderReadme(name, description string, now time.Time) string {
	desc := strings.TrimSpace(description)
	if desc == "" {
		desc = defaultDescription
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", name)
	fmt.Fprintf(&b, "%s\n\n", desc)
	b.WriteString("## Getting Started\n\n")
	b.WriteString("This project was created with SCVP (Save and Control Version Project).\n\n")
	b.WriteString("## Usage\n\n")
	b.WriteString("Use the CLI commands to work with this repository:\n\n")
	b.WriteString("```bash\n")
	b.WriteString("scvp init .\n")
	b.WriteString("scvp commit -m \"Your changes\"\n")
	b.WriteString("scvp push\n")
	b.WriteString("```\n\n")
	b.WriteString("## Author\n\n")
	b.WriteString("This repository was created through the SCVP web interface.\n\n")
	b.WriteString("---\n")
	fmt.Fprintf(&b, "*Created with SCVP - %s*\n", now.Format("2006-01-02 15:04"))

	return b.String()
}
