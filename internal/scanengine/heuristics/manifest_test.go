package heuristics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanExtensionManifest_NativeMessagingAndAllURLs(t *testing.T) {
	content := `{
		"manifest_version": 3,
		"permissions": ["nativeMessaging", "debugger"],
		"host_permissions": ["<all_urls>"]
	}`
	findings := ScanExtensionManifest("manifest.json", content)

	var categories []string
	for _, f := range findings {
		categories = append(categories, f.Category)
	}
	assert.Contains(t, categories, CategoryManifestNativeMessaging)
	assert.Contains(t, categories, CategoryManifestDebugger)
	assert.Contains(t, categories, CategoryManifestAllURLs)
}

func TestScanExtensionManifest_UnsafeCSPAndInsecureUpdateURL(t *testing.T) {
	content := `{
		"manifest_version": 2,
		"content_security_policy": "script-src 'self' 'unsafe-eval'",
		"update_url": "http://example.com/update.xml"
	}`
	findings := ScanExtensionManifest("manifest.json", content)

	var categories []string
	for _, f := range findings {
		categories = append(categories, f.Category)
	}
	assert.Contains(t, categories, CategoryManifestUnsafeCSP)
	assert.Contains(t, categories, CategoryManifestInsecureUpdateURL)
}

func TestScanExtensionManifest_UnsupportedVersionSkipped(t *testing.T) {
	content := `{"manifest_version": 1, "permissions": ["nativeMessaging"]}`
	findings := ScanExtensionManifest("manifest.json", content)
	assert.Nil(t, findings)
}

func TestScanExtensionManifest_BenignManifestNoFindings(t *testing.T) {
	content := `{"manifest_version": 3, "permissions": ["storage"]}`
	findings := ScanExtensionManifest("manifest.json", content)
	assert.Empty(t, findings)
}
