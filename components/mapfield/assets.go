package mapfield

import (
	"net/url"
	"os"
	"strings"
)

// InitCallback is the global function the vendor script calls once loaded.
// The client script defines it.
const InitCallback = "googlemapfieldInit"

// APIKeyEnv overrides the api_key option when set and non-empty.
const APIKeyEnv = "APP_GOOGLE_MAPS_KEY"

// MapsAPIBaseURL is the vendor script endpoint.
const MapsAPIBaseURL = "https://maps.googleapis.com/maps/api/js"

// Asset names of the bundled client files, also used as theme asset keys.
const (
	StylesheetName = "mapfield.css"
	ScriptName     = "mapfield.js"

	StylesheetKey = "location-map.stylesheet"
	ScriptKey     = "location-map.script"
	VendorKey     = "location-map.vendor"
)

// LookupFunc resolves an environment variable.
type LookupFunc func(key string) (string, bool)

// Stylesheet is a stylesheet dependency of the field.
type Stylesheet struct {
	Key  string `json:"key"`
	Href string `json:"href"`
}

// Script is a script dependency of the field.
type Script struct {
	Key   string `json:"key"`
	Src   string `json:"src"`
	Defer bool   `json:"defer"`
}

// AssetSet lists the page requirements for rendering map fields.
type AssetSet struct {
	Stylesheets []Stylesheet
	Scripts     []Script
}

// ResolveAPIKey returns the key from APIKeyEnv, falling back to the api_key
// option. A nil lookup uses os.LookupEnv.
func ResolveAPIKey(lookup LookupFunc, opts OptionSet) string {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if value, ok := lookup(APIKeyEnv); ok {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	if key, ok := opts[OptionAPIKey].(string); ok {
		return strings.TrimSpace(key)
	}
	return ""
}

// MapsAPIURL builds the vendor script URL. The key parameter is omitted when
// empty.
func MapsAPIURL(key string) string {
	params := url.Values{}
	params.Set("callback", InitCallback)
	if key = strings.TrimSpace(key); key != "" {
		params.Set("key", key)
	}
	return MapsAPIBaseURL + "?" + params.Encode()
}

// Assets lists the stylesheet, the client script and the vendor script. The
// bundled files are addressed under basePath. The client script is listed
// before the vendor script so the callback exists when the vendor script
// runs; both are deferred.
func Assets(basePath string, opts OptionSet, lookup LookupFunc) AssetSet {
	return AssetSet{
		Stylesheets: []Stylesheet{
			{Key: StylesheetKey, Href: assetPath(basePath, StylesheetName)},
		},
		Scripts: []Script{
			{Key: ScriptKey, Src: assetPath(basePath, ScriptName), Defer: true},
			{Key: VendorKey, Src: MapsAPIURL(ResolveAPIKey(lookup, opts)), Defer: true},
		},
	}
}

func assetPath(basePath, name string) string {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" || basePath == "/" {
		return "/" + name
	}
	if !strings.HasPrefix(basePath, "/") && !strings.Contains(basePath, "://") {
		basePath = "/" + basePath
	}
	return strings.TrimRight(basePath, "/") + "/" + name
}
