package publish

import (
	"context"
	"fmt"

	"github.com/vetalione/content-pipeline/types"
)

// Result is a successful publish outcome.
type Result struct {
	URL string
}

// Publisher posts one article to one platform. Implementations own their
// session/auth state; adding a platform is one implementation plus one
// registry entry.
type Publisher interface {
	Platform() types.Platform
	Publish(ctx context.Context, article *types.Article, custom *types.PlatformCustomization) (*Result, error)
}

// Registry maps platforms to their publishers.
type Registry struct {
	publishers map[types.Platform]Publisher
}

// NewRegistry builds a registry from the given publishers.
func NewRegistry(publishers ...Publisher) *Registry {
	r := &Registry{publishers: make(map[types.Platform]Publisher, len(publishers))}
	for _, p := range publishers {
		r.Register(p)
	}
	return r
}

// Register adds or replaces the publisher for its platform.
func (r *Registry) Register(p Publisher) {
	r.publishers[p.Platform()] = p
}

// Get returns the publisher for a platform.
func (r *Registry) Get(platform types.Platform) (Publisher, error) {
	p, ok := r.publishers[platform]
	if !ok {
		return nil, fmt.Errorf("platform %s not implemented", platform)
	}
	return p, nil
}

// Platforms lists the registered platforms.
func (r *Registry) Platforms() []types.Platform {
	out := make([]types.Platform, 0, len(r.publishers))
	for p := range r.publishers {
		out = append(out, p)
	}
	return out
}

// PlatformsForLanguage returns the default platform set for a content language.
func PlatformsForLanguage(lang types.Language) []types.Platform {
	switch lang {
	case types.LanguageRU:
		return []types.Platform{types.PlatformDzen, types.PlatformVK, types.PlatformTelegram}
	case types.LanguageEN:
		return []types.Platform{types.PlatformYouTube, types.PlatformThreads, types.PlatformInstagram}
	default:
		return []types.Platform{
			types.PlatformDzen, types.PlatformVK, types.PlatformTelegram,
			types.PlatformYouTube, types.PlatformThreads, types.PlatformInstagram,
		}
	}
}
