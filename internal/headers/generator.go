// Package headers fabricates per-request browser header sets so repeated
// form submissions do not share a single static fingerprint. Profiles are
// pooled and reused across requests.
package headers

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	http "github.com/bogdanfinn/fhttp"
)

type Profile struct {
	ua       string
	secCHUA  string
	platform string
	mobile   bool
	langIdx  int
	encIdx   int
	cacheIdx int
	dntProb  float64
}

var (
	langOpts = []string{
		"en-US,en;q=0.9",
		"en-US,en;q=0.8",
		"en-GB,en;q=0.9,en-US;q=0.8",
		"en-IN,en;q=0.9,hi;q=0.8",
		"en-US,en;q=0.9,es;q=0.8",
		"en-US",
	}
	encOpts = []string{
		"gzip, deflate, br",
		"gzip, deflate, br, zstd",
		"br, gzip, deflate",
	}
	cacheOpts = []string{
		"max-age=0",
		"no-cache",
		"",
	}

	submitOrder = []string{
		"Content-Type",
		"Accept",
		"Accept-Language",
		"Accept-Encoding",
		"User-Agent",
		"Sec-CH-UA",
		"Sec-CH-UA-Mobile",
		"Sec-CH-UA-Platform",
		"Sec-Fetch-Site",
		"Sec-Fetch-Mode",
		"Sec-Fetch-Dest",
		"Origin",
		"Referer",
		"Cache-Control",
		"DNT",
	}
)

var profilePool = sync.Pool{
	New: func() interface{} {
		return generateProfile()
	},
}

func generateProfile() Profile {
	ua, platform, mobile := generateUA()
	return Profile{
		ua:       ua,
		secCHUA:  generateSecCHUA(ua),
		platform: platform,
		mobile:   mobile,
		langIdx:  rand.Intn(len(langOpts)),
		encIdx:   rand.Intn(len(encOpts)),
		cacheIdx: rand.Intn(len(cacheOpts)),
		dntProb:  rand.Float64(),
	}
}

func generateUA() (ua, platform string, mobile bool) {
	chromeMajor := rand.Intn(12) + 128

	switch rand.Intn(4) {
	case 0: // Windows Chrome
		return fmt.Sprintf(
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%d.0.0.0 Safari/537.36",
			chromeMajor,
		), "Windows", false
	case 1: // macOS Chrome
		minor := rand.Intn(6)
		return fmt.Sprintf(
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_%d) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%d.0.0.0 Safari/537.36",
			minor+2, chromeMajor,
		), "macOS", false
	case 2: // Android Chrome
		androidVer := rand.Intn(6) + 10
		return fmt.Sprintf(
			"Mozilla/5.0 (Linux; Android %d; K) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%d.0.0.0 Mobile Safari/537.36",
			androidVer, chromeMajor,
		), "Android", true
	default: // Linux Chrome
		return fmt.Sprintf(
			"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%d.0.0.0 Safari/537.36",
			chromeMajor,
		), "Linux", false
	}
}

func generateSecCHUA(ua string) string {
	major := "130"
	if i := strings.Index(ua, "Chrome/"); i >= 0 {
		rest := ua[i+len("Chrome/"):]
		if dot := strings.Index(rest, "."); dot > 0 {
			major = rest[:dot]
		}
	}
	brands := []string{
		fmt.Sprintf(`"Chromium";v="%s", "Google Chrome";v="%s", "Not?A_Brand";v="99"`, major, major),
		fmt.Sprintf(`"Google Chrome";v="%s", "Chromium";v="%s", "Not_A Brand";v="8"`, major, major),
	}
	return brands[rand.Intn(len(brands))]
}

// BuildSubmitHeaders returns the header set for POSTing a form response.
// referer is the form's viewform URL.
func BuildSubmitHeaders(referer string) http.Header {
	profile := profilePool.Get().(Profile)
	defer profilePool.Put(profile)

	h := http.Header{}
	h.Set("Content-Type", "application/x-www-form-urlencoded")
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	h.Set("Accept-Language", langOpts[profile.langIdx])
	h.Set("Accept-Encoding", encOpts[profile.encIdx])
	h.Set("User-Agent", profile.ua)
	h.Set("Sec-CH-UA", profile.secCHUA)
	if profile.mobile {
		h.Set("Sec-CH-UA-Mobile", "?1")
	} else {
		h.Set("Sec-CH-UA-Mobile", "?0")
	}
	h.Set("Sec-CH-UA-Platform", `"`+profile.platform+`"`)
	h.Set("Origin", "https://docs.google.com")
	h.Set("Referer", referer)
	// A hidden-iframe submit is a same-origin navigation from the form page.
	h.Set("Sec-Fetch-Site", "same-origin")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Dest", "iframe")

	if cc := cacheOpts[profile.cacheIdx]; cc != "" {
		h.Set("Cache-Control", cc)
	}
	if profile.dntProb < 0.2 {
		h.Set("DNT", "1")
	}

	h[http.HeaderOrderKey] = submitOrder
	return h
}

// BuildFetchHeaders returns the header set for GETting the form page
// before scraping it.
func BuildFetchHeaders() http.Header {
	profile := profilePool.Get().(Profile)
	defer profilePool.Put(profile)

	h := http.Header{}
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", langOpts[profile.langIdx])
	h.Set("Accept-Encoding", encOpts[profile.encIdx])
	h.Set("User-Agent", profile.ua)
	h.Set("Sec-CH-UA", profile.secCHUA)
	h.Set("Sec-CH-UA-Mobile", "?0")
	h.Set("Sec-CH-UA-Platform", `"`+profile.platform+`"`)
	h.Set("Sec-Fetch-Site", "none")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Dest", "document")
	return h
}

// InitProfilePool pre-generates count profiles so the first submissions
// do not all share the lazily created default.
func InitProfilePool(count int) {
	profiles := make([]interface{}, count)
	for i := 0; i < count; i++ {
		profiles[i] = generateProfile()
	}
	for _, profile := range profiles {
		profilePool.Put(profile)
	}
}
