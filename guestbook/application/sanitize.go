package application

import (
	"strings"
	"unicode/utf8"

	"guestbook-service/guestbook/domain"

	"golang.org/x/net/html"
)

// mesma tabela do htmlspecialchars(ENT_QUOTES), para o front end existente
// continuar recebendo as mesmas entidades.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#039;",
	"<", "&lt;",
	">", "&gt;",
)

// Sanitizer limpa nome/mensagem: trim, política de markup, escape e corte.
type Sanitizer struct {
	Policy domain.MarkupPolicy
}

// Clean aplica, nesta ordem: trim, remoção de tags (se Policy == strip),
// escape de caracteres HTML e corte em maxLen runas.
func (s Sanitizer) Clean(input string, maxLen int) string {
	out := strings.TrimSpace(input)
	if s.Policy == domain.MarkupStrip {
		out = strings.TrimSpace(stripTags(out))
	}
	out = escaper.Replace(out)
	return truncate(out, maxLen)
}

// stripTags devolve só o texto entre as tags.
func stripTags(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF ou entrada truncada: o que já foi lido basta.
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen])
}
