package milk

import (
	"context"
	"sort"
	"strings"
	"time"
)

const (
	statsDefaultDays = 7
	leaderboardSize  = 5
	unknownLabel     = "Unknown"
)

// Stats es el payload de analytics del dashboard. SpeciesBreakdown y
// BreedBreakdown son mutuamente excluyentes: con filtro de especie activo
// se agrupa por raza, sin filtro se agrupa por especie.
type Stats struct {
	TotalLiters  float64
	AnimalCount  int
	AvgPerAnimal float64

	DailyProduction []DailyPoint

	SpeciesBreakdown []BreakdownItem
	BreedBreakdown   []BreakdownItem

	TopProducers []Producer
}

type DailyPoint struct {
	Date   time.Time
	Liters float64
}

type BreakdownItem struct {
	Label       string
	TotalLiters float64
	AvgLiters   float64
}

type Producer struct {
	TagID       string
	TotalLiters float64
}

// StatsQuery son los filtros del endpoint de stats.
type StatsQuery struct {
	From *time.Time
	To   *time.Time

	Species string
	Breed   string
	Status  string
}

func (s *Service) Stats(ctx context.Context, farmID string, q StatsQuery) (Stats, error) {
	if strings.TrimSpace(farmID) == "" {
		return Stats{}, ErrInvalidInput
	}

	f := StatsFilter{
		From:    q.From,
		To:      q.To,
		Species: strings.TrimSpace(q.Species),
		Breed:   strings.TrimSpace(q.Breed),
		Status:  strings.TrimSpace(q.Status),
	}

	// Sin rango explícito: últimos 7 días incluyendo hoy.
	if f.From == nil && f.To == nil {
		from := DayOf(s.now()).AddDate(0, 0, -(statsDefaultDays - 1))
		f.From = &from
	}

	rows, err := s.repo.ListForStats(ctx, farmID, f)
	if err != nil {
		return Stats{}, err
	}

	return computeStats(rows, f.Species != ""), nil
}

// computeStats agrega en memoria sobre las filas ya filtradas. Mantiene la
// misma semántica sobre postgres y sobre el store en memoria.
func computeStats(rows []StatsRow, speciesFiltered bool) Stats {
	st := Stats{
		DailyProduction:  []DailyPoint{},
		SpeciesBreakdown: []BreakdownItem{},
		BreedBreakdown:   []BreakdownItem{},
		TopProducers:     []Producer{},
	}

	type group struct {
		liters  float64
		animals map[string]struct{}
	}

	animals := map[string]struct{}{}
	daily := map[time.Time]float64{}
	groups := map[string]*group{}
	perTag := map[string]float64{}

	for _, r := range rows {
		st.TotalLiters += r.Liters
		animals[r.AnimalID] = struct{}{}
		daily[DayOf(r.Date)] += r.Liters
		perTag[r.TagID] += r.Liters

		// Con filtro de especie el breakdown es por raza; sin filtro, por
		// especie. Nunca ambos.
		label := r.Species
		if speciesFiltered {
			label = r.Breed
		}
		if label == "" {
			label = unknownLabel
		}
		g := groups[label]
		if g == nil {
			g = &group{animals: map[string]struct{}{}}
			groups[label] = g
		}
		g.liters += r.Liters
		g.animals[r.AnimalID] = struct{}{}
	}

	st.AnimalCount = len(animals)
	if st.AnimalCount > 0 {
		// Nunca división por cero: sin animales el promedio es 0.0.
		st.AvgPerAnimal = st.TotalLiters / float64(st.AnimalCount)
	}

	// Serie diaria, fecha ascendente.
	days := make([]time.Time, 0, len(daily))
	for d := range daily {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	for _, d := range days {
		st.DailyProduction = append(st.DailyProduction, DailyPoint{Date: d, Liters: daily[d]})
	}

	// Breakdown: promedio por grupo usa los animales distintos DEL grupo.
	items := make([]BreakdownItem, 0, len(groups))
	for label, g := range groups {
		avg := 0.0
		if n := len(g.animals); n > 0 {
			avg = g.liters / float64(n)
		}
		items = append(items, BreakdownItem{Label: label, TotalLiters: g.liters, AvgLiters: avg})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].TotalLiters != items[j].TotalLiters {
			return items[i].TotalLiters > items[j].TotalLiters
		}
		return items[i].Label < items[j].Label
	})
	if speciesFiltered {
		st.BreedBreakdown = items
	} else {
		st.SpeciesBreakdown = items
	}

	// Leaderboard top 5 por tag. Empates: orden estable por tag.
	producers := make([]Producer, 0, len(perTag))
	for tag, liters := range perTag {
		producers = append(producers, Producer{TagID: tag, TotalLiters: liters})
	}
	sort.Slice(producers, func(i, j int) bool {
		if producers[i].TotalLiters != producers[j].TotalLiters {
			return producers[i].TotalLiters > producers[j].TotalLiters
		}
		return producers[i].TagID < producers[j].TagID
	})
	if len(producers) > leaderboardSize {
		producers = producers[:leaderboardSize]
	}
	st.TopProducers = producers

	return st
}
