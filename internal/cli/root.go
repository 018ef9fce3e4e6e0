package cli

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-mapfield/components/mapfield"
	"github.com/goliatone/go-mapfield/pkg/record"
)

// fieldFlags are the persistent flags shared by every command.
type fieldFlags struct {
	optionsFile string
	typeName    string
	title       string
	lat         string
	lng         string
	zoom        string
	bounds      string
	logLevel    string
}

// NewRootCommand builds the complete command tree.
func NewRootCommand(deps Dependencies) *cobra.Command {
	flags := &fieldFlags{}

	root := &cobra.Command{
		Use:           "mapfield",
		Short:         "Render, inspect and edit location map fields.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       resolvedVersion(deps.Version),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.optionsFile, "options", "", "YAML file with field options")
	pf.StringVar(&flags.typeName, "type", "Place", "record type name")
	pf.StringVar(&flags.title, "title", "Location", "field title")
	pf.StringVar(&flags.lat, "lat", "", "record latitude")
	pf.StringVar(&flags.lng, "lng", "", "record longitude")
	pf.StringVar(&flags.zoom, "zoom", "", "record zoom")
	pf.StringVar(&flags.bounds, "bounds", "", "record viewport bounds")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newRenderCommand(deps, flags))
	root.AddCommand(newSettingsCommand(deps, flags))
	root.AddCommand(newAssetsCommand(deps, flags))
	root.AddCommand(newEditCommand(deps, flags))

	return root
}

func resolvedVersion(version string) string {
	if strings.TrimSpace(version) == "" {
		return "dev"
	}
	return version
}

// session is the state a command works on: the loaded options, a record
// seeded from the flags and the field bound to it.
type session struct {
	logger  zerolog.Logger
	options mapfield.OptionSet
	record  *record.MapRecord
	field   *mapfield.Field
}

func (f *fieldFlags) session(cmd *cobra.Command) (*session, error) {
	logger, err := newLogger(cmd.ErrOrStderr(), f.logLevel)
	if err != nil {
		return nil, err
	}

	options := mapfield.OptionSet{}
	if path := strings.TrimSpace(f.optionsFile); path != "" {
		options, err = mapfield.LoadOptionsFile(path)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("file", path).Int("keys", len(options)).Msg("loaded field options")
	}

	rec := record.NewMapRecord(f.typeName, record.WithKinds(record.LocationKinds(options)))
	names := mapfield.ResolveFieldNames(options)
	for logical, raw := range map[string]string{
		mapfield.Latitude:  f.lat,
		mapfield.Longitude: f.lng,
		mapfield.Zoom:      f.zoom,
		mapfield.Bounds:    f.bounds,
	} {
		attr := names.Lookup(logical)
		if strings.TrimSpace(raw) == "" || attr == "" {
			continue
		}
		if err := rec.SetCastedField(attr, raw); err != nil {
			return nil, fmt.Errorf("flag %s: %w", strings.ToLower(logical), err)
		}
	}

	field := mapfield.New(rec, f.title, options)
	logger.Debug().Str("field", field.Name()).Msg("bound field")

	return &session{logger: logger, options: options, record: rec, field: field}, nil
}
