package markdown

import (
	"strings"
	"testing"
	"time"

	"github.com/project-tktt/empleos-bot/internal/config"
	"github.com/project-tktt/empleos-bot/internal/domain"
	"github.com/stretchr/testify/assert"
)

var testLinks = config.FooterConfig{
	HelpURL:    "https://help",
	ContactURL: "https://contact",
	SourceURL:  "https://source",
}

func TestFormatter_Row(t *testing.T) {
	f := NewFormatter(testLinks)

	tests := []struct {
		name    string
		listing domain.Listing
		want    string
	}{
		{
			"named company",
			domain.Listing{Salary: 9000, Title: "Analista - ACME", Location: "Jalisco, Guadalajara", URL: "http://x/1"},
			"[Analista](http://x/1) | Acme | $9,000 | Jalisco, Guadalajara\n",
		},
		{
			"unnamed company",
			domain.Listing{Salary: 7000, Title: "Cajero - Sin Nombre", Location: "Jalisco, Zapopan", URL: "http://x/2"},
			"[Cajero](http://x/2) | S/N | $7,000 | Jalisco, Zapopan\n",
		},
		{
			"large salary and pipe",
			domain.Listing{Salary: 1234567, Title: "Gerente | Ventas - Grupo", Location: "Nuevo León", URL: "http://x/3"},
			"[Gerente / Ventas](http://x/3) | Grupo | $1,234,567 | Nuevo León\n",
		},
		{
			"small salary",
			domain.Listing{Salary: 800, Title: "Becario - Uni", Location: "Yucatán", URL: "http://x/4"},
			"[Becario](http://x/4) | Uni | $800 | Yucatán\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Row(&tt.listing))
		})
	}
}

func TestFormatter_Footers(t *testing.T) {
	f := NewFormatter(testLinks)
	now := time.Date(2024, 3, 15, 8, 30, 0, 0, time.Local)

	assert.Equal(t,
		"\n*****\n^Ofertas ^obtenidas ^el: ^15-03-2024 ^a ^las ^08:30:00 ^|\n"+
			"[^Ayuda](https://help) ^|\n[^Contacto](https://contact) ^|\n[^GitHub](https://source)",
		f.QueryFooter(now))

	digest := f.DigestFooter(now)
	assert.True(t, strings.HasPrefix(digest, "\n*****\n^Última ^actualización: ^15-03-2024 ^a ^las ^08:30:00 ^|\n"))
	assert.Contains(t, digest, "^[Ayuda](https://help)")
	assert.True(t, strings.HasSuffix(digest, "^[GitHub](https://source)"))
}
