package main

import (
	"github.com/taskpulse/go-todo/app"
	_ "github.com/taskpulse/go-todo/docs"
)

func main() {
	// setup and run app
	err := app.SetupAndRunApp()
	if err != nil {
		panic(err)
	}
}
