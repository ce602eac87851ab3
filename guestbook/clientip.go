package guestbook

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// KeyFunc extrai a identidade do cliente de uma requisição.
type KeyFunc func(r *http.Request) string

const fallbackClientIP = "127.0.0.1"

// ordem de preferência dos headers de proxy; a conexão vem depois deles.
var proxyHeaders = []string{"X-Forwarded-For", "X-Real-IP", "Client-IP"}

// faixas reservadas além das que netip já classifica (privadas, loopback,
// link-local, multicast, não especificado).
var reservedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("192.0.2.0/24"),
	netip.MustParsePrefix("198.18.0.0/15"),
	netip.MustParsePrefix("198.51.100.0/24"),
	netip.MustParsePrefix("203.0.113.0/24"),
	netip.MustParsePrefix("240.0.0.0/4"),
	netip.MustParsePrefix("64:ff9b::/96"),
	netip.MustParsePrefix("100::/64"),
	netip.MustParsePrefix("2001:db8::/32"),
}

// ClientIPFunc resolve o IP do cliente.
//
// Candidatos, em ordem: primeiro IP do X-Forwarded-For, X-Real-IP, Client-IP
// (só se trustProxyHeaders) e o endereço da conexão. Vence o primeiro que for
// um IP público. Se nenhum for, usa o host da conexão como veio.
func ClientIPFunc(trustProxyHeaders bool) KeyFunc {
	return func(r *http.Request) string {
		remote := remoteHost(r.RemoteAddr)

		candidates := make([]string, 0, len(proxyHeaders)+1)
		if trustProxyHeaders {
			for _, h := range proxyHeaders {
				v := r.Header.Get(h)
				if h == "X-Forwarded-For" {
					// o primeiro da lista é o cliente original
					v, _, _ = strings.Cut(v, ",")
				}
				candidates = append(candidates, v)
			}
		}
		candidates = append(candidates, remote)

		for _, c := range candidates {
			if ip, ok := publicIP(c); ok {
				return ip
			}
		}
		if remote != "" {
			return remote
		}
		return fallbackClientIP
	}
}

func remoteHost(addr string) string {
	addr = strings.TrimSpace(addr)
	host, _, err := net.SplitHostPort(addr)
	if err == nil && host != "" {
		return host
	}
	return addr
}

func publicIP(s string) (string, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	addr = addr.Unmap()
	if addr.Zone() != "" || !addr.IsGlobalUnicast() || addr.IsPrivate() {
		return "", false
	}
	for _, p := range reservedPrefixes {
		if p.Contains(addr) {
			return "", false
		}
	}
	return addr.String(), true
}
