package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-mapfield/components/mapfield"
	"github.com/goliatone/go-mapfield/pkg/record"
	"github.com/goliatone/go-mapfield/pkg/render"
	"github.com/goliatone/go-mapfield/pkg/renderers/headless"
	"github.com/goliatone/go-mapfield/pkg/renderers/vanilla"
)

// newRegistry lists the renderers selectable with --renderer. The first one
// is the default.
func newRegistry() (*render.Registry, error) {
	html, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	if err := registry.Register(html); err != nil {
		return nil, err
	}
	if err := registry.Register(headless.New(headless.WithIndent("  "))); err != nil {
		return nil, err
	}
	return registry, nil
}

func selectRenderer(name string) (render.Renderer, error) {
	registry, err := newRegistry()
	if err != nil {
		return nil, err
	}
	if name == "" {
		return registry.Default()
	}
	return registry.Get(name)
}

func newRenderCommand(deps Dependencies, flags *fieldFlags) *cobra.Command {
	var withAssets bool
	var assetsPath string
	var rendererName string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the HTML of the field bound to the flag values.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := flags.session(cmd)
			if err != nil {
				return err
			}
			renderer, err := selectRenderer(rendererName)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if withAssets {
				tags, err := renderer.RenderAssets(mapfield.Assets(assetsPath, s.field.Options(), deps.Lookup))
				if err != nil {
					return err
				}
				if _, err := out.Write(tags); err != nil {
					return err
				}
			}
			body, err := renderer.RenderField(s.field)
			if err != nil {
				return err
			}
			s.logger.Info().
				Str("field", s.field.Name()).
				Str("renderer", renderer.Name()).
				Int("bytes", len(body)).
				Msg("rendered field")
			_, err = fmt.Fprintln(out, strings.TrimSpace(string(body)))
			return err
		},
	}
	cmd.Flags().BoolVar(&withAssets, "with-assets", false, "prefix the output with the stylesheet and script tags")
	cmd.Flags().StringVar(&assetsPath, "assets-path", "/assets", "URL prefix of the bundled client assets")
	cmd.Flags().StringVar(&rendererName, "renderer", "", "renderer to use (vanilla, headless)")
	return cmd
}

func newSettingsCommand(_ Dependencies, flags *fieldFlags) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Print the client settings payload of the field.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := flags.session(cmd)
			if err != nil {
				return err
			}
			if !pretty {
				payload, err := s.field.SettingsJSON()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), payload)
				return err
			}
			return writeJSON(cmd, s.field.Settings())
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	return cmd
}

func newAssetsCommand(deps Dependencies, flags *fieldFlags) *cobra.Command {
	var assetsPath string
	var rendererName string

	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Print the stylesheet and script tags the field needs.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := flags.session(cmd)
			if err != nil {
				return err
			}
			renderer, err := selectRenderer(rendererName)
			if err != nil {
				return err
			}
			set := mapfield.Assets(assetsPath, s.field.Options(), deps.Lookup)
			if set.Scripts[len(set.Scripts)-1].Src == mapfield.MapsAPIURL("") {
				s.logger.Warn().Msgf("no API key: set %s or the %s option", mapfield.APIKeyEnv, mapfield.OptionAPIKey)
			}
			tags, err := renderer.RenderAssets(set)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(tags)
			return err
		},
	}
	cmd.Flags().StringVar(&assetsPath, "assets-path", "/assets", "URL prefix of the bundled client assets")
	cmd.Flags().StringVar(&rendererName, "renderer", "", "renderer to use (vanilla, headless)")
	return cmd
}

func newEditCommand(deps Dependencies, flags *fieldFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Prompt for a location and save it onto the record.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if deps.Prompts == nil {
				return fmt.Errorf("edit: no prompt driver configured")
			}
			s, err := flags.session(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			current := s.field.Value().Map()
			kinds := record.LocationKinds(s.options)
			names := mapfield.ResolveFieldNames(s.options)

			values := make(map[string]any, len(current))
			for _, logical := range mapfield.LogicalNames() {
				kind := kinds[names.Lookup(logical)]
				answer, err := deps.Prompts.Input(ctx, InputConfig{
					Message:   logical,
					Default:   formatDefault(current[logical]),
					Help:      fmt.Sprintf("Stored as %s in %s. Leave blank to clear.", kindLabel(kind), names.Lookup(logical)),
					Validator: castValidator(kind),
				})
				if err != nil {
					return err
				}
				values[logical] = answer
			}

			ok, err := deps.Prompts.Confirm(ctx, ConfirmConfig{Message: "Save location?", Default: true})
			if err != nil {
				return err
			}
			if !ok {
				s.logger.Info().Msg("edit discarded")
				return nil
			}

			s.field.SetValue(values)
			if err := s.field.SaveInto(s.record); err != nil {
				return fmt.Errorf("edit: %w", err)
			}
			s.logger.Info().Str("field", s.field.Name()).Msg("saved location")

			return writeJSON(cmd, map[string]any{
				"type":       s.record.TypeName(),
				"attributes": s.record.Attributes(),
			})
		},
	}
}

func castValidator(kind record.Kind) func(string) error {
	return func(answer string) error {
		_, err := record.Cast(kind, answer)
		return err
	}
}

func kindLabel(kind record.Kind) string {
	if kind == record.KindAny {
		return "any"
	}
	return string(kind)
}

func formatDefault(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

func writeJSON(cmd *cobra.Command, value any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
