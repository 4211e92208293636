package poolstore

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/yanqian/mealweek/internal/domain/mealplan"
)

func fakePool(seed int64, n int) mealplan.RecipePool {
	faker := gofakeit.New(seed)
	pool := make(mealplan.RecipePool, 0, n)
	for i := 0; i < n; i++ {
		minutes := float64(faker.Number(5, 90))
		pool = append(pool, &mealplan.Recipe{
			Label:     faker.Sentence(3),
			ImageURL:  faker.URL(),
			SourceURL: faker.URL(),
			Servings:  float64(faker.Number(1, 8)),
			KcalTotal: faker.Float64Range(150, 2400),
			NutrientsTotal: map[string]float64{
				"PROCNT": faker.Float64Range(5, 120),
				"FAT":    faker.Float64Range(2, 90),
			},
			IngredientLines:  []string{faker.Word(), faker.Word()},
			HealthLabels:     []string{"Vegetarian"},
			TotalTimeMinutes: &minutes,
		})
	}
	return pool
}

func fakeEntry(key string, seed int64, recordedAt time.Time) mealplan.CacheEntry {
	return mealplan.CacheEntry{Key: key, RecordedAt: recordedAt, Pool: fakePool(seed, 3)}
}
