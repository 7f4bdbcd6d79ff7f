package milk

import (
	"context"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStats_TotalsAndAverage(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, &testDirectory{})

	repo.statsRows = []StatsRow{
		{AnimalID: "a1", TagID: "12", Species: "Cow", Breed: "Sahiwal", Liters: 10, Date: day(2025, 3, 9)},
		{AnimalID: "a1", TagID: "12", Species: "Cow", Breed: "Sahiwal", Liters: 15, Date: day(2025, 3, 10)},
	}

	st, err := svc.Stats(context.Background(), "farm-1", StatsQuery{})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if st.TotalLiters != 25 {
		t.Fatalf("total: %v", st.TotalLiters)
	}
	// Mismo animal dos veces cuenta UNA vez.
	if st.AnimalCount != 1 {
		t.Fatalf("animal count: %d", st.AnimalCount)
	}
	if st.AvgPerAnimal != 25 {
		t.Fatalf("avg: %v", st.AvgPerAnimal)
	}
}

func TestStats_EmptyIsZeroes(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, &testDirectory{})

	st, err := svc.Stats(context.Background(), "farm-1", StatsQuery{})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalLiters != 0 || st.AnimalCount != 0 || st.AvgPerAnimal != 0 {
		t.Fatalf("expected zeroes, got %+v", st)
	}
	if st.DailyProduction == nil || st.TopProducers == nil {
		t.Fatalf("slices should be empty, not nil")
	}
}

func TestStats_DefaultWindowIsLastSevenDays(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, &testDirectory{})

	if _, err := svc.Stats(context.Background(), "farm-1", StatsQuery{}); err != nil {
		t.Fatalf("stats: %v", err)
	}

	// fixedNow = 2025-03-10 => desde el 2025-03-04 (7 días incluyendo hoy).
	want := day(2025, 3, 4)
	if repo.lastStatsFilter.From == nil || !repo.lastStatsFilter.From.Equal(want) {
		t.Fatalf("default from wrong: %+v", repo.lastStatsFilter.From)
	}
	if repo.lastStatsFilter.To != nil {
		t.Fatalf("default to should stay open")
	}

	// Con rango explícito no se toca.
	from := day(2025, 1, 1)
	if _, err := svc.Stats(context.Background(), "farm-1", StatsQuery{From: &from}); err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !repo.lastStatsFilter.From.Equal(from) {
		t.Fatalf("explicit from overridden: %+v", repo.lastStatsFilter.From)
	}
}

func TestStats_DailySeriesAscending(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, &testDirectory{})

	repo.statsRows = []StatsRow{
		{AnimalID: "a1", TagID: "1", Species: "Cow", Liters: 5, Date: day(2025, 3, 10)},
		{AnimalID: "a1", TagID: "1", Species: "Cow", Liters: 3, Date: day(2025, 3, 8)},
		{AnimalID: "a1", TagID: "1", Species: "Cow", Liters: 4, Date: day(2025, 3, 8)},
		{AnimalID: "a1", TagID: "1", Species: "Cow", Liters: 2, Date: day(2025, 3, 9)},
	}

	st, _ := svc.Stats(context.Background(), "farm-1", StatsQuery{})
	if len(st.DailyProduction) != 3 {
		t.Fatalf("expected 3 days, got %d", len(st.DailyProduction))
	}
	if !st.DailyProduction[0].Date.Equal(day(2025, 3, 8)) || st.DailyProduction[0].Liters != 7 {
		t.Fatalf("day 0 wrong: %+v", st.DailyProduction[0])
	}
	if !st.DailyProduction[2].Date.Equal(day(2025, 3, 10)) {
		t.Fatalf("series not ascending: %+v", st.DailyProduction)
	}
}

func TestStats_BreakdownBySpeciesOrBreed(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, &testDirectory{})
	ctx := context.Background()

	repo.statsRows = []StatsRow{
		{AnimalID: "a1", TagID: "1", Species: "Cow", Breed: "Sahiwal", Liters: 10, Date: day(2025, 3, 9)},
		{AnimalID: "a2", TagID: "2", Species: "Cow", Breed: "", Liters: 4, Date: day(2025, 3, 9)},
		{AnimalID: "a3", TagID: "3", Species: "Buffalo", Breed: "Nili-Ravi", Liters: 12, Date: day(2025, 3, 9)},
	}

	// Sin filtro de especie: agrupa por especie, breed breakdown vacío.
	st, _ := svc.Stats(ctx, "farm-1", StatsQuery{})
	if len(st.BreedBreakdown) != 0 {
		t.Fatalf("breed breakdown should be empty without species filter")
	}
	if len(st.SpeciesBreakdown) != 2 {
		t.Fatalf("expected 2 species groups, got %d", len(st.SpeciesBreakdown))
	}
	// Orden por litros desc: Cow (14) antes que Buffalo (12).
	if st.SpeciesBreakdown[0].Label != "Cow" || st.SpeciesBreakdown[0].TotalLiters != 14 {
		t.Fatalf("species order wrong: %+v", st.SpeciesBreakdown)
	}
	// Promedio del grupo usa los animales del grupo: Cow = 14/2.
	if st.SpeciesBreakdown[0].AvgLiters != 7 {
		t.Fatalf("group avg wrong: %v", st.SpeciesBreakdown[0].AvgLiters)
	}

	// Con filtro de especie: agrupa por raza; raza vacía => "Unknown".
	st, _ = svc.Stats(ctx, "farm-1", StatsQuery{Species: "Cow"})
	if len(st.SpeciesBreakdown) != 0 {
		t.Fatalf("species breakdown should be empty with species filter")
	}
	labels := map[string]bool{}
	for _, b := range st.BreedBreakdown {
		labels[b.Label] = true
	}
	if !labels["Sahiwal"] || !labels["Unknown"] {
		t.Fatalf("expected Sahiwal and Unknown groups: %+v", st.BreedBreakdown)
	}
}

func TestStats_TopProducersCapAndOrder(t *testing.T) {
	repo := newTestRepo()
	svc := newTestService(repo, &testDirectory{})

	rows := []StatsRow{}
	for i, liters := range []float64{5, 30, 10, 30, 20, 15, 25} {
		tag := string(rune('A' + i))
		rows = append(rows, StatsRow{
			AnimalID: "an-" + tag, TagID: tag, Species: "Cow",
			Liters: liters, Date: day(2025, 3, 9),
		})
	}
	repo.statsRows = rows

	st, _ := svc.Stats(context.Background(), "farm-1", StatsQuery{})
	if len(st.TopProducers) != 5 {
		t.Fatalf("expected top 5, got %d", len(st.TopProducers))
	}
	// Empate en 30: desempata por tag ascendente (B antes que D).
	if st.TopProducers[0].TagID != "B" || st.TopProducers[1].TagID != "D" {
		t.Fatalf("tie-break wrong: %+v", st.TopProducers)
	}
	if st.TopProducers[2].TotalLiters != 25 {
		t.Fatalf("order wrong: %+v", st.TopProducers)
	}
}
