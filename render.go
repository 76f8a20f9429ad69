package inlinebuild

import (
	"context"
	"fmt"

	"github.com/allape/inlinebuild/internal/pipeline"
)

// Compile-time interface implementation check.
var _ pipeline.Substituter = (*pipeline.MarkerSubstitution)(nil)

// Render replaces every asset's marker in template according to mode.
//
// In ModeDocs each marker becomes <script src="CDN"></script>. In ModeDist
// each marker becomes <script>payload</script>, with payload looked up by
// asset name. Only the first occurrence of a marker is replaced and the rest
// of the template is copied unchanged. A marker missing from the template
// returns ErrMarkerNotFound.
func Render(template string, list []Asset, payloads map[string]string, mode Mode) (string, error) {
	return renderWith(context.Background(), &pipeline.MarkerSubstitution{}, template, list, payloads, mode)
}

func renderWith(ctx context.Context, s pipeline.Substituter, template string, list []Asset, payloads map[string]string, mode Mode) (string, error) {
	if err := mode.Validate(); err != nil {
		return "", err
	}
	if err := ValidateAssets(list); err != nil {
		return "", err
	}

	subs, err := substitutions(list, payloads, mode)
	if err != nil {
		return "", err
	}

	out, err := s.Substitute(ctx, template, subs)
	if err != nil {
		return "", fmt.Errorf("rendering template: %w", err)
	}
	return out, nil
}

// substitutions builds the ordered replacement list for mode.
func substitutions(list []Asset, payloads map[string]string, mode Mode) ([]pipeline.Substitution, error) {
	subs := make([]pipeline.Substitution, 0, len(list))
	for _, a := range list {
		var replacement string
		if mode == ModeDocs {
			replacement = pipeline.ExternalScript(a.CDN)
		} else {
			payload, ok := payloads[a.Name]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrMissingPayload, a.Name)
			}
			replacement = pipeline.InlineScript(payload)
		}
		subs = append(subs, pipeline.Substitution{
			Name:        a.Name,
			Marker:      a.Marker,
			Replacement: replacement,
		})
	}
	return subs, nil
}
