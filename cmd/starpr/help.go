// ABOUTME: Help display for the starpr CLI with grouped flags, examples, and environment status.
// ABOUTME: Provides printHelp for usage output and envStatus for the STARPR_* overrides.
package main

import (
	"fmt"
	"io"
	"os"
)

// printHelp writes a formatted help message to w, including usage, grouped
// flags, examples, and which environment overrides are active.
func printHelp(w io.Writer, ver string) {
	fmt.Fprintf(w, "starpr %s: landing page with in-page content editing\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  starpr [flags]                  Serve the landing page and editor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Server Flags:")
	fmt.Fprintln(w, "  -port <n>             Listen port (default: 2626)")
	fmt.Fprintln(w, "  -addr <host:port>     Full listen address; overrides -port and STARPR_BIND")
	fmt.Fprintln(w, "  -max-sessions <n>     Open editor sessions kept in memory (default: 100)")
	fmt.Fprintln(w, "  -session-ttl <dur>    Idle time before a session is dropped (default: 2h)")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Storage Flags:")
	fmt.Fprintln(w, "  -data-dir <dir>       Persisted edits directory (default: $XDG_DATA_HOME/starpr)")
	fmt.Fprintln(w, "  -store <backend>      sqlite, file, or memory (default: sqlite)")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Content Flags:")
	fmt.Fprintln(w, "  -config <file>        Editor config YAML (default: $XDG_CONFIG_HOME/starpr/editor.yaml if present)")
	fmt.Fprintln(w, "  -content <file>       Page content YAML (default: built-in)")
	fmt.Fprintln(w, "  -version              Print version and exit")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  starpr")
	fmt.Fprintln(w, "  starpr -store file -data-dir ./data")
	fmt.Fprintln(w, "  STARPR_CREATOR_CODE=s3cret starpr -port 8080")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment:")
	for _, line := range envStatus() {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

// envStatus reports each STARPR_* override and whether it is set. The
// creator code value itself is never printed.
func envStatus() []string {
	vars := []struct {
		name   string
		secret bool
	}{
		{envCreatorCode, true},
		{envBind, false},
	}
	out := make([]string, 0, len(vars))
	for _, v := range vars {
		val, ok := os.LookupEnv(v.name)
		switch {
		case !ok || val == "":
			out = append(out, fmt.Sprintf("%-22s not set", v.name))
		case v.secret:
			out = append(out, fmt.Sprintf("%-22s set", v.name))
		default:
			out = append(out, fmt.Sprintf("%-22s %s", v.name, val))
		}
	}
	return out
}
