package inventory

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NameKey normaliza el nombre de un insumo para el match idempotente por nombre
// dentro de una clínica: minúsculas, sin tildes, espacios colapsados.
// "Algodón  Estéril" y "algodon esteril" producen la misma clave.
func NameKey(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, name)
	if err != nil {
		plain = name
	}
	return strings.Join(strings.Fields(strings.ToLower(plain)), " ")
}
