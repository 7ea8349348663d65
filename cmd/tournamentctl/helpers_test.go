package main

import (
	"testing"

	"github.com/riskibarqy/tournament-data/internal/app"
	"github.com/riskibarqy/tournament-data/internal/domain/document"
	"github.com/riskibarqy/tournament-data/internal/interfaces/dataapi"
	"github.com/riskibarqy/tournament-data/internal/platform/logging"
	"github.com/riskibarqy/tournament-data/internal/usecase"
	"github.com/stretchr/testify/require"
)

func usecaseEngine(c *app.Container, writer document.Writer) *usecase.CollectionEngine {
	return usecase.NewCollectionEngine(c.Store, writer, logging.NewNop())
}

func staticData(t *testing.T, c *app.Container) dataapi.Client {
	t.Helper()

	data, err := dataapi.New(dataapi.Options{
		StaticMode: true,
		Store:      c.Store,
		Engine:     c.Engine,
		Points:     c.Points,
		Logger:     logging.NewNop(),
	})
	require.NoError(t, err)
	return data
}
