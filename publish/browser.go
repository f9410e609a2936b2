package publish

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/vetalione/content-pipeline/types"
)

// BrowserPublisher drives a platform's web UI with a persisted session blob.
// The automation itself is a placeholder that returns a deterministic URL;
// the session handling and registry contract are the part that stays when a
// real driver replaces postViaBrowser.
type BrowserPublisher struct {
	platform types.Platform
	homeURL  string
	postURL  func(article *types.Article) string
	sessions *SessionStore
}

// NewBrowserPublisher builds the placeholder publisher for one platform.
func NewBrowserPublisher(platform types.Platform, sessions *SessionStore) *BrowserPublisher {
	home, post := browserEndpoints(platform)
	return &BrowserPublisher{
		platform: platform,
		homeURL:  home,
		postURL:  post,
		sessions: sessions,
	}
}

func (b *BrowserPublisher) Platform() types.Platform { return b.platform }

func (b *BrowserPublisher) Publish(ctx context.Context, article *types.Article, custom *types.PlatformCustomization) (*Result, error) {
	blob, err := b.sessions.Load(b.platform)
	if err != nil {
		return nil, fmt.Errorf("load %s session: %w", b.platform, err)
	}
	if blob == nil {
		// Fresh unauthenticated session; against real targets this will
		// fail until an interactive login populates the blob.
		log.Printf("No saved session for %s, using fresh context", b.platform)
	}

	return b.postViaBrowser(ctx, article)
}

// postViaBrowser is the stub automation flow. TODO: drive the real editor
// flows per platform (fill title, upload cover, create content blocks).
func (b *BrowserPublisher) postViaBrowser(ctx context.Context, article *types.Article) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Printf("Publishing %s to %s via %s", article.ID, b.platform, b.homeURL)
	return &Result{URL: b.postURL(article)}, nil
}

func browserEndpoints(platform types.Platform) (home string, post func(*types.Article) string) {
	stamp := func() int64 { return time.Now().UnixMilli() }
	switch platform {
	case types.PlatformVK:
		return "https://vk.com/", func(*types.Article) string {
			return fmt.Sprintf("https://vk.com/wall-123456_%d", stamp())
		}
	case types.PlatformInstagram:
		return "https://www.instagram.com/", func(*types.Article) string {
			return fmt.Sprintf("https://instagram.com/p/%d", stamp())
		}
	case types.PlatformYouTube:
		return "https://studio.youtube.com/", func(*types.Article) string {
			return fmt.Sprintf("https://youtube.com/watch?v=%d", stamp())
		}
	case types.PlatformThreads:
		return "https://www.threads.net/", func(*types.Article) string {
			return fmt.Sprintf("https://www.threads.net/post/%d", stamp())
		}
	case types.PlatformDzen:
		return "https://dzen.ru/", func(*types.Article) string {
			return fmt.Sprintf("https://dzen.ru/posts/%d", stamp())
		}
	case types.PlatformMedium:
		return "https://medium.com/", func(*types.Article) string {
			return fmt.Sprintf("https://medium.com/p/%d", stamp())
		}
	case types.PlatformFacebook:
		return "https://www.facebook.com/", func(*types.Article) string {
			return fmt.Sprintf("https://facebook.com/posts/%d", stamp())
		}
	case types.PlatformTwitter:
		return "https://x.com/", func(*types.Article) string {
			return fmt.Sprintf("https://x.com/status/%d", stamp())
		}
	case types.PlatformLinkedIn:
		return "https://www.linkedin.com/", func(*types.Article) string {
			return fmt.Sprintf("https://linkedin.com/feed/update/%d", stamp())
		}
	default:
		return "https://example.com/", func(*types.Article) string {
			return fmt.Sprintf("https://example.com/posts/%d", stamp())
		}
	}
}
