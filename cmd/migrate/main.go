package main

import (
	"os"

	"github.com/course-api/course_api/internal/command"
)

func main() {
	if err := command.MigrateCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
