package fetch

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Platform is a site builder commonly used for campaign websites.
type Platform string

const (
	// PlatformNationBuilder is the NationBuilder campaign CMS
	PlatformNationBuilder Platform = "nationbuilder"
	// PlatformWordPress is WordPress
	PlatformWordPress Platform = "wordpress"
	// PlatformSquarespace is Squarespace
	PlatformSquarespace Platform = "squarespace"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the site builder from the page's generator meta
// tag or well-known asset hosts. Campaigns use custom domains, so the URL
// alone says nothing.
func DetectPlatform(doc *goquery.Document) Platform {
	generator := strings.ToLower(doc.Find(`meta[name="generator"]`).AttrOr("content", ""))
	switch {
	case strings.Contains(generator, "nationbuilder"):
		return PlatformNationBuilder
	case strings.Contains(generator, "wordpress"):
		return PlatformWordPress
	case strings.Contains(generator, "squarespace"):
		return PlatformSquarespace
	}

	platform := PlatformUnknown
	doc.Find("script[src], link[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		ref := strings.ToLower(s.AttrOr("src", s.AttrOr("href", "")))
		switch {
		case strings.Contains(ref, "nationbuilder.com"):
			platform = PlatformNationBuilder
		case strings.Contains(ref, "/wp-content/"):
			platform = PlatformWordPress
		case strings.Contains(ref, "squarespace.com"):
			platform = PlatformSquarespace
		default:
			return true
		}
		return false
	})
	return platform
}

// PlatformContentSelectors returns content selectors for a platform, most
// specific first.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformNationBuilder:
		return append([]string{"#content .content", "#intro", ".page-content"}, DefaultTextSelectors()...)
	case PlatformWordPress:
		return append([]string{".entry-content", ".wp-block-post-content", ".post-content"}, DefaultTextSelectors()...)
	case PlatformSquarespace:
		return append([]string{".sqs-layout", "#page", ".page-section"}, DefaultTextSelectors()...)
	default:
		return DefaultTextSelectors()
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a platform.
func PlatformNoiseSelectors(platform Platform) []string {
	common := []string{
		// Fundraising and signup
		".donate",
		".donate-button",
		".signup",
		".newsletter",
		".volunteer-form",

		// Social and share buttons
		".social-share",
		".share-buttons",
		".social-links",

		// Cookie and GDPR
		".cookie-consent",
		".gdpr-notice",
	}

	switch platform {
	case PlatformNationBuilder:
		return append(common, ".nb-donation", "#signup", ".sidebar")
	case PlatformWordPress:
		return append(common, ".widget-area", ".comments-area", ".wp-block-buttons")
	case PlatformSquarespace:
		return append(common, ".sqs-announcement-bar", ".newsletter-block")
	default:
		return common
	}
}
