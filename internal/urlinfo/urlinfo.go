// Package urlinfo describes a URL the way an analyst reads it before looking at
// model scores: host, public suffix, registrable domain and character entropy.
package urlinfo

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"phishunt/internal/tokenizer"
)

type Profile struct {
	Raw               string   `json:"raw"`
	Host              string   `json:"host"`
	PublicSuffix      string   `json:"public_suffix"`
	ICANN             bool     `json:"icann"`
	RegistrableDomain string   `json:"registrable_domain"`
	Subdomain         string   `json:"subdomain"`
	HostEntropy       float64  `json:"host_entropy"`
	Entropy           float64  `json:"entropy"`
	Tokens            []string `json:"tokens"`
}

// Describe never fails; fields it cannot derive are left empty.
func Describe(raw string) Profile {
	p := Profile{
		Raw:     raw,
		Entropy: tokenizer.Entropy(raw),
		Tokens:  tokenizer.Tokenize(raw),
	}

	p.Host = hostOf(raw)
	if p.Host == "" {
		return p
	}
	p.HostEntropy = tokenizer.Entropy(p.Host)

	suffix, icann := publicsuffix.PublicSuffix(p.Host)
	p.PublicSuffix = suffix
	p.ICANN = icann

	if domain, err := publicsuffix.EffectiveTLDPlusOne(p.Host); err == nil {
		p.RegistrableDomain = domain
		p.Subdomain = strings.TrimSuffix(strings.TrimSuffix(p.Host, domain), ".")
	}

	return p
}

// hostOf accepts both absolute URLs and the scheme-less form common in the dataset.
func hostOf(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	return strings.Trim(strings.ToLower(u.Hostname()), ".")
}
