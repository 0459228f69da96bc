// @title eventd API
// @version 1.0
// @description eventd 事件生命周期与提醒服务 API
// @host localhost:3000
// @BasePath /api/v1
// @schemes http
package main

import (
	"os"

	applog "github.com/eventd/backend/internal/infrastructure/log"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		applog.GetLogger().Error("eventd exited with error",
			"error", err,
		)
		os.Exit(1)
	}
}
