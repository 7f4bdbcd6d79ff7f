package herd

import "time"

// Species define las especies soportadas.
// @Enum Buffalo, Cow, Goat, Horse, Camel
type Species string

const (
	SpeciesBuffalo Species = "Buffalo"
	SpeciesCow     Species = "Cow"
	SpeciesGoat    Species = "Goat"
	SpeciesHorse   Species = "Horse"
	SpeciesCamel   Species = "Camel"
)

// speciesCodes mapea especie -> código de 3 letras para el SRA ID.
// Especies sin mapeo usan el fallback "ANI".
var speciesCodes = map[Species]string{
	SpeciesBuffalo: "BUF",
	SpeciesCow:     "COW",
	SpeciesGoat:    "GOA",
	SpeciesHorse:   "HOR",
	SpeciesCamel:   "CAM",
}

// Gender define el género del animal.
// @Enum Male, Female
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Origin indica cómo llegó el animal a la granja.
// @Enum Home_Bred, Purchased
type Origin string

const (
	OriginHomeBred  Origin = "Home_Bred"
	OriginPurchased Origin = "Purchased"
)

// Status es el estado de ciclo de vida del animal.
type Status string

const (
	StatusMilking  Status = "Milking"
	StatusDry      Status = "Dry"
	StatusHeifer   Status = "Heifer"
	StatusCalf     Status = "Calf"
	StatusSold     Status = "Sold"
	StatusDeceased Status = "Deceased"
)

// Animal representa un animal del hato registrado en el sistema.
type Animal struct {
	ID     string
	FarmID string

	TagID string // tag visual local, único por granja
	SRAID string // id global externo (PK-XXX-YYYY-ZZZZ)

	Species Species
	Breed   string
	Gender  Gender

	DOB    *time.Time
	Origin Origin
	Status Status

	// Solo presente si Origin == Purchased.
	PurchasePrice *float64

	// Genealogía: DamID referencia a otro animal de la MISMA granja
	// (nullable). DamLabel/SireLabel son texto libre para padres que no
	// están registrados en el sistema.
	DamID     *string
	DamLabel  string
	SireLabel string

	InitialWeight *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WeightLog es el historial de pesos de un animal. Append-only: se crea una
// fila al registrar el animal (si vino peso inicial) y en pesajes manuales.
type WeightLog struct {
	ID       string
	AnimalID string

	WeightKg float64
	Date     time.Time
	Notes    string
}
