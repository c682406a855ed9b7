//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/nurturemyplants/plantcare/internal/bootstrap"
	"github.com/nurturemyplants/plantcare/internal/domain/analysis"
	"github.com/nurturemyplants/plantcare/internal/domain/careplan"
	"github.com/nurturemyplants/plantcare/internal/domain/identify"
	"github.com/nurturemyplants/plantcare/internal/domain/share"
	"github.com/nurturemyplants/plantcare/internal/infra/config"
	"github.com/nurturemyplants/plantcare/internal/infra/imaging"
	"github.com/nurturemyplants/plantcare/internal/infra/llm/vision"
	"github.com/nurturemyplants/plantcare/internal/infra/pdf"
	httpiface "github.com/nurturemyplants/plantcare/internal/interface/http"
	"github.com/nurturemyplants/plantcare/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideModelClient,
		provideIdentifyConfig,
		provideCarePlanConfig,
		providePreprocessor,
		provideShareConfig,
		provideShareStore,
		provideRateLimiters,
		identify.NewService,
		careplan.NewService,
		analysis.NewService,
		share.NewService,
		pdf.NewRenderer,
		wire.Bind(new(identify.ModelClient), new(*vision.Client)),
		wire.Bind(new(careplan.ModelClient), new(*vision.Client)),
		wire.Bind(new(analysis.ImagePreprocessor), new(*imaging.Preprocessor)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
