package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// parseResize parses a WxH bound. Either side may be omitted: "1920x",
// "x1080", "1920x1080". An empty spec means no resizing.
func parseResize(spec string) (width, height int, err error) {
	if spec == "" {
		return 0, 0, nil
	}

	spec = strings.ToLower(spec)
	w, h, ok := strings.Cut(spec, "x")
	if !ok {
		return 0, 0, fmt.Errorf("resize must look like 1920x1080, got %q", spec)
	}

	if w != "" {
		width, err = strconv.Atoi(w)
		if err != nil || width <= 0 {
			return 0, 0, fmt.Errorf("invalid resize width %q", w)
		}
	}
	if h != "" {
		height, err = strconv.Atoi(h)
		if err != nil || height <= 0 {
			return 0, 0, fmt.Errorf("invalid resize height %q", h)
		}
	}
	if width == 0 && height == 0 {
		return 0, 0, fmt.Errorf("resize needs at least one dimension, got %q", spec)
	}

	return width, height, nil
}
