package importer

import (
	"context"
	"io"

	"github.com/fekuna/accountbook-service/internal/importer/dto"
)

type UseCase interface {
	// Import replays every data row of a CSV or XLSX file through the normal
	// create path. Header problems reject the whole file; row problems are
	// collected and the remaining rows still run.
	Import(ctx context.Context, ownerID string, entity dto.Entity, filename string, r io.Reader) (*dto.Result, error)
	Template(entity dto.Entity) (filename string, data []byte, err error)
}
