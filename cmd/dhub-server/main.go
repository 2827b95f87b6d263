package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/skyfleet-io/dronehub/cmd/dhub-server/app"
)

func main() {
	app.NewApp().Run()
}
