package mapfield

import (
	"net/url"
	"strings"
	"testing"
)

func lookupFrom(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
}

func TestResolveAPIKey_EnvWins(t *testing.T) {
	opts := OptionSet{OptionAPIKey: "from-options"}

	if got := ResolveAPIKey(lookupFrom(map[string]string{APIKeyEnv: "from-env"}), opts); got != "from-env" {
		t.Fatalf("expected env key, got %q", got)
	}
	if got := ResolveAPIKey(lookupFrom(map[string]string{APIKeyEnv: "  "}), opts); got != "from-options" {
		t.Fatalf("expected blank env to fall back to options, got %q", got)
	}
	if got := ResolveAPIKey(lookupFrom(nil), OptionSet{}); got != "" {
		t.Fatalf("expected empty key, got %q", got)
	}
}

func TestMapsAPIURL(t *testing.T) {
	withKey := MapsAPIURL("abc")
	if !strings.HasPrefix(withKey, MapsAPIBaseURL+"?") {
		t.Fatalf("unexpected base: %q", withKey)
	}
	parsed, err := url.Parse(withKey)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := parsed.Query().Get("callback"); got != InitCallback {
		t.Fatalf("unexpected callback: %q", got)
	}
	if got := parsed.Query().Get("key"); got != "abc" {
		t.Fatalf("unexpected key: %q", got)
	}

	if strings.Contains(MapsAPIURL(""), "key=") {
		t.Fatalf("did not expect key param without a key")
	}
}

func TestAssets_OrderAndPaths(t *testing.T) {
	set := Assets("/admin/assets/", OptionSet{OptionAPIKey: "k"}, lookupFrom(nil))

	if len(set.Stylesheets) != 1 || set.Stylesheets[0].Href != "/admin/assets/"+StylesheetName {
		t.Fatalf("unexpected stylesheets: %#v", set.Stylesheets)
	}
	if len(set.Scripts) != 2 {
		t.Fatalf("expected 2 scripts, got %d", len(set.Scripts))
	}
	if set.Scripts[0].Key != ScriptKey || set.Scripts[0].Src != "/admin/assets/"+ScriptName {
		t.Fatalf("unexpected client script: %#v", set.Scripts[0])
	}
	if set.Scripts[1].Key != VendorKey || set.Scripts[1].Src != MapsAPIURL("k") {
		t.Fatalf("unexpected vendor script: %#v", set.Scripts[1])
	}
	for _, script := range set.Scripts {
		if !script.Defer {
			t.Fatalf("expected deferred script: %#v", script)
		}
	}

	if got := Assets("", nil, lookupFrom(nil)).Stylesheets[0].Href; got != "/"+StylesheetName {
		t.Fatalf("unexpected root href: %q", got)
	}
}
