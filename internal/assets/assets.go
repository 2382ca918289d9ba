package assets

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed banner.txt
var banner string

// Banner returns the start-up art followed by where the API listens and which
// file it serves.
func Banner(addr, dataFile string) string {
	var b strings.Builder

	b.WriteString(strings.TrimRight(banner, "\n"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "  listening on http://%s\n", addr)
	fmt.Fprintf(&b, "  serving products from %s\n", dataFile)

	return b.String()
}
