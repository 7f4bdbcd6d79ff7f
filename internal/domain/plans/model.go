package plans

// Plan es data de referencia read-only: se siembra al arranque y el core
// nunca la muta.
type Plan struct {
	ID         string
	Name       string
	PricePKR   float64
	MaxAnimals int
}

// DefaultPlanName es el plan asignado al aprovisionar usuarios nuevos.
const DefaultPlanName = "Free"
