package connector

import (
	"fmt"
	"net/url"
	"strings"
)

// restrictedPrefixes are browser-internal pages a content script cannot run in.
var restrictedPrefixes = []string{
	"chrome:", "chrome-extension:", "chrome-search:", "edge:", "about:",
	"moz-extension:", "view-source:", "devtools:", "brave:", "opera:", "vivaldi:",
}

// restrictedHosts are extension stores that forbid script injection.
var restrictedHosts = map[string]string{
	"chromewebstore.google.com":   "",
	"chrome.google.com":           "/webstore",
	"microsoftedge.microsoft.com": "/addons",
	"addons.mozilla.org":          "",
}

// RestrictedPageError reports a target that may not be analyzed.
type RestrictedPageError struct {
	Target string
}

func (e *RestrictedPageError) Error() string {
	return fmt.Sprintf("cannot analyze restricted page %q", e.Target)
}

// CheckTarget returns *RestrictedPageError for browser-internal pages and
// extension stores.
func CheckTarget(target string) error {
	lower := strings.ToLower(strings.TrimSpace(target))
	for _, p := range restrictedPrefixes {
		if strings.HasPrefix(lower, p) {
			return &RestrictedPageError{Target: target}
		}
	}
	u, err := url.Parse(lower)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil
	}
	if prefix, ok := restrictedHosts[u.Hostname()]; ok && strings.HasPrefix(u.Path, prefix) {
		return &RestrictedPageError{Target: target}
	}
	return nil
}
