package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dentalia/insumos-api/internal/domain/inventory"
)

func TestNameKey_Normalizacion(t *testing.T) {
	casos := []struct {
		entrada  string
		esperado string
	}{
		{"Algodón Estéril", "algodon esteril"},
		{"algodon esteril", "algodon esteril"},
		{"ALGODÓN  ESTÉRIL", "algodon esteril"},
		{"  Gasas   estériles  ", "gasas esteriles"},
		{"Anestesia lidocaína 2%", "anestesia lidocaina 2%"},
		{"Señal", "senal"}, // la ñ se descompone en NFD y pierde la virgulilla
		{"", ""},
	}
	for _, c := range casos {
		assert.Equal(t, c.esperado, inventory.NameKey(c.entrada), "entrada: %q", c.entrada)
	}
}

func TestNameKey_VariantesColisionan(t *testing.T) {
	variantes := []string{"Agujas Cárpule", "agujas carpule", "AGUJAS  CÁRPULE", " agujas cárpule "}
	clave := inventory.NameKey(variantes[0])
	for _, v := range variantes[1:] {
		assert.Equal(t, clave, inventory.NameKey(v))
	}
}
