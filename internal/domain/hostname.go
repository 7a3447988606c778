package domain

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

// MaxDomainsPerBatch limita o tamanho do lote aceito
const MaxDomainsPerBatch = 100

var (
	hostnameRegexp = regexp.MustCompile(`^([a-z0-9]([a-z0-9\-]{0,61}[a-z0-9])?\.)+[a-z0-9\-]{2,63}$`)
	portRegexp     = regexp.MustCompile(`:\d+$`)
)

// ParseDomainList separa o texto em linhas, descartando linhas vazias
func ParseDomainList(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	entries := make([]string, 0, len(lines))
	for _, line := range lines {
		if entry := strings.TrimSpace(line); entry != "" {
			entries = append(entries, entry)
		}
	}

	return entries
}

// NormalizeDomain remove esquema, caminho, porta e o prefixo www. O www. só
// sai quando o que sobra não é um sufixo ICANN (www.com continua www.com).
func NormalizeDomain(raw string) string {
	host := strings.ToLower(strings.TrimSpace(raw))
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")

	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	host = portRegexp.ReplaceAllString(host, "")
	host = strings.TrimSuffix(host, ".")

	if rest, ok := strings.CutPrefix(host, "www."); ok && rest != "" {
		if suffix, icann := publicsuffix.PublicSuffix(rest); !icann || suffix != rest {
			host = rest
		}
	}

	return host
}

// ValidateDomain verifica se o domínio normalizado tem formato de hostname
// público. Nomes Unicode são validados pela forma ASCII (punycode). Só é
// recusado o host que é ele mesmo um sufixo ICANN; raízes da seção privada
// da lista (github.io, blogspot.com) são sites reais.
func ValidateDomain(host string) error {
	if host == "" {
		return errors.Wrap(ErrInvalidInput, "empty domain")
	}

	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return errors.Wrapf(ErrInvalidInput, "%q is not a valid domain", host)
	}

	if len(ascii) > 253 {
		return errors.Wrapf(ErrInvalidInput, "domain %q is too long", host)
	}

	if !hostnameRegexp.MatchString(ascii) {
		return errors.Wrapf(ErrInvalidInput, "%q is not a valid domain", host)
	}

	suffix, icann := publicsuffix.PublicSuffix(ascii)
	if !icann && !strings.Contains(suffix, ".") {
		return errors.Wrapf(ErrInvalidInput, "%q has an unknown top-level domain", host)
	}

	if icann && suffix == ascii {
		return errors.Wrapf(ErrInvalidInput, "%q is a public suffix, not a domain", host)
	}

	return nil
}
