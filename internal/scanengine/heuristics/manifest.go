package heuristics

import (
	"encoding/json"
	"strings"

	"github.com/agentwarden/warden/internal/model"
)

const (
	CategoryManifestAllURLs              = "MANIFEST_ALL_URLS_HOST"
	CategoryManifestNativeMessaging      = "MANIFEST_NATIVE_MESSAGING"
	CategoryManifestDebugger             = "MANIFEST_DEBUGGER_PERMISSION"
	CategoryManifestWebRequestBlocking   = "MANIFEST_WEBREQUEST_BLOCKING"
	CategoryManifestProxy                = "MANIFEST_PROXY_PERMISSION"
	CategoryManifestHistoryOrCookies     = "MANIFEST_HISTORY_OR_COOKIES"
	CategoryManifestExternallyConnectable = "MANIFEST_EXTERNALLY_CONNECTABLE"
	CategoryManifestWebAccessibleResources = "MANIFEST_BROAD_WEB_ACCESSIBLE_RESOURCES"
	CategoryManifestUnsafeCSP            = "MANIFEST_UNSAFE_CSP"
	CategoryManifestInsecureUpdateURL    = "MANIFEST_INSECURE_UPDATE_URL"
)

type extensionManifest struct {
	ManifestVersion int      `json:"manifest_version"`
	Permissions     []string `json:"permissions"`
	HostPermissions []string `json:"host_permissions"`
	ExternallyConnectable *struct {
		Matches []string `json:"matches"`
	} `json:"externally_connectable"`
	WebAccessibleResources json.RawMessage `json:"web_accessible_resources"`
	ContentSecurityPolicy  json.RawMessage `json:"content_security_policy"`
	UpdateURL              string          `json:"update_url"`
}

// ScanExtensionManifest inspects a browser-extension manifest.json for
// overbroad permissions and unsafe configuration. Only manifest_version 2
// and 3 are recognized; anything else is left unscanned.
func ScanExtensionManifest(path, content string) []model.Finding {
	var m extensionManifest
	if err := json.Unmarshal([]byte(content), &m); err != nil {
		return nil
	}
	if m.ManifestVersion != 2 && m.ManifestVersion != 3 {
		return nil
	}

	var out []model.Finding
	add := func(sev model.Severity, category, msg string) {
		out = append(out, finding(path, sev, category, msg))
	}

	allPerms := append(append([]string{}, m.Permissions...), m.HostPermissions...)
	for _, p := range allPerms {
		if p == "<all_urls>" || strings.Contains(p, "*://*/*") {
			add(model.SeverityHigh, CategoryManifestAllURLs, "broad host permission: "+p)
			break
		}
	}

	for _, p := range m.Permissions {
		switch p {
		case "nativeMessaging":
			add(model.SeverityCritical, CategoryManifestNativeMessaging, "requests nativeMessaging permission")
		case "debugger":
			add(model.SeverityCritical, CategoryManifestDebugger, "requests debugger permission")
		case "webRequestBlocking":
			add(model.SeverityHigh, CategoryManifestWebRequestBlocking, "requests webRequestBlocking permission")
		case "proxy":
			add(model.SeverityHigh, CategoryManifestProxy, "requests proxy permission")
		case "history", "cookies":
			add(model.SeverityHigh, CategoryManifestHistoryOrCookies, "requests "+p+" permission")
		}
	}

	if m.ExternallyConnectable != nil && len(m.ExternallyConnectable.Matches) > 0 {
		add(model.SeverityMedium, CategoryManifestExternallyConnectable, "declares externally_connectable matches")
	}

	if len(m.WebAccessibleResources) > 0 {
		raw := string(m.WebAccessibleResources)
		if strings.Contains(raw, "\"<all_urls>\"") || strings.Contains(raw, "\"*\"") || strings.Contains(raw, "\"*/*\"") {
			add(model.SeverityMedium, CategoryManifestWebAccessibleResources, "overly broad web_accessible_resources")
		}
	}

	if len(m.ContentSecurityPolicy) > 0 {
		raw := string(m.ContentSecurityPolicy)
		if strings.Contains(raw, "unsafe-eval") || strings.Contains(raw, "unsafe-inline") {
			add(model.SeverityHigh, CategoryManifestUnsafeCSP, "content_security_policy allows unsafe-eval/unsafe-inline")
		}
	}

	if m.UpdateURL != "" && strings.HasPrefix(m.UpdateURL, "http://") {
		add(model.SeverityHigh, CategoryManifestInsecureUpdateURL, "update_url uses plaintext http://")
	}

	return out
}
