package get_unavailable_blocks

import (
	"context"

	getUnavailableBlocks "github.com/salonflow/scheduling-service/internal/usecase/get_unavailable_blocks"
)

type GetUnavailableBlocksUseCase interface {
	Execute(ctx context.Context, req *getUnavailableBlocks.Request) (*getUnavailableBlocks.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
