package main

import (
	"goflare.io/display/config"
	"goflare.io/display/server"
)

type application struct {
	server  *server.Server
	config  *config.Config
	cleanup func()
}

func newApplication(s *server.Server, appConfig *config.Config) *application {
	return &application{server: s, config: appConfig}
}

// InitializeServer builds the application and attaches the provider cleanup.
func InitializeServer() (*application, error) {
	app, cleanup, err := initializeApplication()
	if err != nil {
		return nil, err
	}
	app.cleanup = cleanup
	return app, nil
}
