package main

import (
	"os"

	"github.com/miirko99/translation-api/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
