package helpers

import (
	"testing"

	"github.com/gti/pageobject/internal/browser"
)

// ScreenshotOnFailure saves a screenshot of b into dir when t has failed by
// the time its cleanup runs.
//
//	helpers.ScreenshotOnFailure(t, env.Browser, env.Config.ArtifactsDir)
func ScreenshotOnFailure(t *testing.T, b *browser.Browser, dir string) {
	t.Helper()
	t.Cleanup(func() {
		if !t.Failed() {
			return
		}
		path, err := b.Screenshot(dir)
		if err != nil {
			t.Logf("failed to capture screenshot: %v", err)
			return
		}
		t.Logf("screenshot saved to %s", path)
	})
}
