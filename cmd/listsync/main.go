package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/Tomlord1122/listsync/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
