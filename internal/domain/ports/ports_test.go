package ports_test

import (
	"abrengine/internal/domain/ports"
	"abrengine/internal/forecast/model"
	mongorepo "abrengine/internal/repository/mongo"
	"abrengine/internal/storage/statefile"
)

// Compile-time checks that the concrete implementations satisfy the ports.
var (
	_ ports.Model = (*model.Trend)(nil)
	_ ports.Model = (*model.Constant)(nil)

	_ ports.StateStore = (*statefile.Store)(nil)

	_ ports.ViewingArchive = (*mongorepo.ViewingHistoryRepository)(nil)
)
