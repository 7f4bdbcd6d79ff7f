package milk

import "time"

// Session es la sesión de ordeño dentro del día.
// @Enum morning, evening
type Session string

const (
	SessionMorning Session = "morning"
	SessionEvening Session = "evening"
)

// Entry registra la producción de leche de un animal en una fecha/sesión.
// No tiene farm_id propio: el ownership es transitivo vía el animal.
type Entry struct {
	ID       string
	AnimalID string

	Liters  float64
	Date    time.Time // fecha calendario (solo día, UTC)
	Session Session

	RecordedAt time.Time

	FatPercentage *float64
	Quality       *string
}

// EntryWithAnimal enriquece la fila con tag y especie del animal
// (denormalizado para display, no se almacena).
type EntryWithAnimal struct {
	Entry

	AnimalTagID   string
	AnimalSpecies string
}
