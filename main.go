package main

import (
	"happythoughts/crud"
	"happythoughts/http"
)

// main is the app's entry point.
func main() {
	// Load configuration from the environment (and a .env file if present).
	config := LoadConfig()

	// Open a database connection and execute migrations.
	db := NewDB(config.DatabaseURL)
	err := Open(db, config.IsProd())
	must(err)
	defer Close(db)
	err = AutoMigrate(db)
	must(err)

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(config.Pepper),
		crud.WithThought(),
	)
	must(err)

	// Set up a webserver and serve the app.
	server := http.NewServer(services.User, services.Thought)
	server.Run(config.Port)
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
