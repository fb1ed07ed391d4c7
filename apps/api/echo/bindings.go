package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/personal/core"
)

var targetParam = "user_id"

// Target is the user whose data a request reads or writes. Empty means the caller.
type Target struct {
	UserID string
}

func (tgt *Target) Bind(ctx echo.Context) {
	tgt.UserID = core.CleanString(ctx.QueryParam(targetParam))
}

func bindTarget(ctx echo.Context) string {
	var tgt Target
	tgt.Bind(ctx)
	return tgt.UserID
}
