package artifact

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/leadshield/scanner-platform/internal/core/domain"
)

func testScanner(primary string) domain.Scanner {
	return domain.Scanner{
		ID:       "scanner-1",
		UID:      "scanner_ab12cd34",
		ClientID: "client-1",
		Name:     "Acme Scanner",
		Branding: domain.Branding{
			PrimaryColor: primary,
			UpdatedAt:    time.Now().UTC(),
		},
		Status: domain.ScannerStatusDeployed,
	}
}

func TestRenderWritesFullBundle(t *testing.T) {
	generator, err := NewGenerator(t.TempDir(), "https://platform.test/api/v1")
	if err != nil {
		t.Fatalf("init generator: %v", err)
	}

	scanner := testScanner("#112233")
	bundle, err := generator.Render(scanner, "Acme Security")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, name := range []string{MarkupFile, EmbedFile, StylesFile, ScriptFile, DocsFile} {
		if _, err := os.Stat(filepath.Join(bundle.Dir, name)); err != nil {
			t.Fatalf("missing bundle file %s: %v", name, err)
		}
	}

	if bundle.EmbedURL != "https://platform.test/api/v1/scanner/scanner_ab12cd34/embed" {
		t.Fatalf("unexpected embed URL %q", bundle.EmbedURL)
	}

	script, err := os.ReadFile(filepath.Join(bundle.Dir, ScriptFile))
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	if !strings.Contains(string(script), "https://platform.test/api/v1/scanner/scanner_ab12cd34/scan") {
		t.Fatal("expected submit URL under the configured prefix in widget script")
	}

	styles, err := os.ReadFile(filepath.Join(bundle.Dir, StylesFile))
	if err != nil {
		t.Fatalf("read styles: %v", err)
	}
	if !strings.Contains(string(styles), "#112233") {
		t.Fatal("expected primary color in rendered stylesheet")
	}

	markup, err := os.ReadFile(filepath.Join(bundle.Dir, MarkupFile))
	if err != nil {
		t.Fatalf("read markup: %v", err)
	}
	if !strings.Contains(string(markup), "Acme Security") {
		t.Fatal("expected business name in rendered markup")
	}
	if !strings.Contains(string(markup), scanner.UID) {
		t.Fatal("expected scanner uid in rendered markup")
	}
}

func TestRenderReplacesPreviousBranding(t *testing.T) {
	generator, err := NewGenerator(t.TempDir(), "https://platform.test")
	if err != nil {
		t.Fatalf("init generator: %v", err)
	}

	scanner := testScanner("#aa0000")
	if _, err := generator.Render(scanner, "Acme Security"); err != nil {
		t.Fatalf("first render: %v", err)
	}

	scanner.Branding.PrimaryColor = "#00bb00"
	bundle, err := generator.Render(scanner, "Acme Security")
	if err != nil {
		t.Fatalf("second render: %v", err)
	}

	styles, err := os.ReadFile(filepath.Join(bundle.Dir, StylesFile))
	if err != nil {
		t.Fatalf("read styles: %v", err)
	}
	if strings.Contains(string(styles), "#aa0000") {
		t.Fatal("expected old color gone after re-render")
	}
	if !strings.Contains(string(styles), "#00bb00") {
		t.Fatal("expected new color in stylesheet")
	}
}

func TestRenderAppliesDefaultColors(t *testing.T) {
	generator, err := NewGenerator(t.TempDir(), "https://platform.test")
	if err != nil {
		t.Fatalf("init generator: %v", err)
	}

	bundle, err := generator.Render(testScanner(""), "Acme Security")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	styles, err := os.ReadFile(filepath.Join(bundle.Dir, StylesFile))
	if err != nil {
		t.Fatalf("read styles: %v", err)
	}
	if !strings.Contains(string(styles), defaultPrimaryColor) {
		t.Fatalf("expected default primary color %s in stylesheet", defaultPrimaryColor)
	}
}

func TestStaleTracksBrandingTimestamp(t *testing.T) {
	generator, err := NewGenerator(t.TempDir(), "https://platform.test")
	if err != nil {
		t.Fatalf("init generator: %v", err)
	}

	scanner := testScanner("#112233")
	if !generator.Stale(scanner.UID, scanner.Branding) {
		t.Fatal("expected unrendered bundle to be stale")
	}

	if _, err := generator.Render(scanner, "Acme Security"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if generator.Stale(scanner.UID, scanner.Branding) {
		t.Fatal("expected freshly rendered bundle to be current")
	}

	// Branding updated after the render makes the bundle stale again.
	scanner.Branding.UpdatedAt = time.Now().UTC().Add(time.Minute)
	if !generator.Stale(scanner.UID, scanner.Branding) {
		t.Fatal("expected bundle to be stale after branding update")
	}
}

func TestRenderIfStaleSkipsCurrentBundle(t *testing.T) {
	generator, err := NewGenerator(t.TempDir(), "https://platform.test")
	if err != nil {
		t.Fatalf("init generator: %v", err)
	}

	scanner := testScanner("#112233")
	if _, rendered, err := generator.RenderIfStale(scanner, "Acme Security"); err != nil || !rendered {
		t.Fatalf("expected initial render, rendered=%v err=%v", rendered, err)
	}
	if _, rendered, err := generator.RenderIfStale(scanner, "Acme Security"); err != nil || rendered {
		t.Fatalf("expected skip for current bundle, rendered=%v err=%v", rendered, err)
	}
}
