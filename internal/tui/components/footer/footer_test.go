package footer

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestFooterRightAligned(t *testing.T) {
	t.Parallel()

	right := "Video delay: 3s | Buffered frames: 90"
	out := New(right, 80).Render()

	first := strings.Split(out, "\n")[0]
	if !strings.Contains(first, right) {
		t.Errorf("footer line %q does not contain %q", first, right)
	}
	if w := lipgloss.Width(first); w != 80 {
		t.Errorf("footer width = %d, want 80", w)
	}
}
