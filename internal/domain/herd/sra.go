package herd

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	sraRandLen  = 4
	sraCharset  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	sraFallback = "ANI"
)

// SpeciesCode devuelve el código de 3 letras usado en el SRA ID.
func SpeciesCode(s Species) string {
	if c, ok := speciesCodes[s]; ok {
		return c
	}
	return sraFallback
}

// newSRAID genera un SRA ID con formato PK-{CODE}-{YEAR}-{4 chars A-Z0-9}.
// No garantiza unicidad: el caller la verifica y el unique constraint del
// storage es el backstop final.
func newSRAID(species Species, now time.Time) string {
	b := make([]byte, sraRandLen)
	for i := range b {
		b[i] = sraCharset[rand.Intn(len(sraCharset))]
	}
	return fmt.Sprintf("PK-%s-%d-%s", SpeciesCode(species), now.Year(), string(b))
}
