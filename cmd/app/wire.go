//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/mealweek/internal/bootstrap"
	"github.com/yanqian/mealweek/internal/domain/mealplan"
	"github.com/yanqian/mealweek/internal/infra/config"
	"github.com/yanqian/mealweek/internal/infra/recipes/edamam"
	httpiface "github.com/yanqian/mealweek/internal/interface/http"
	"github.com/yanqian/mealweek/pkg/logger"
	"github.com/yanqian/mealweek/pkg/metrics"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		metrics.NewCollector,
		provideMealPlanConfig,
		provideRetryConfig,
		provideEdamamConfig,
		providePoolStore,
		edamam.NewClient,
		wire.Bind(new(mealplan.RecipeSearcher), new(*edamam.Client)),
		mealplan.NewService,
		httpiface.NewPlanHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
