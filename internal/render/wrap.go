package render

import "strings"

// WrapLines splits text on literal newlines (§6, script separator
// becomes "\n" before reaching here) and hard-wraps each resulting line
// to width runes, discarding lines past height (§4.3: "no scroll in
// v1"). width/height <= 0 yield no lines.
func WrapLines(text string, width, height int) []string {
	if width <= 0 || height <= 0 {
		return nil
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		runes := []rune(line)
		if len(runes) == 0 {
			out = append(out, "")
			continue
		}
		for len(runes) > 0 {
			n := width
			if n > len(runes) {
				n = len(runes)
			}
			out = append(out, string(runes[:n]))
			runes = runes[n:]
		}
	}

	if len(out) > height {
		out = out[:height]
	}
	return out
}
