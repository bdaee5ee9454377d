package main

import "log"

func main() {

	app, err := InitializeServer()
	if err != nil {
		log.Fatal(err)
		return
	}
	defer app.cleanup()

	if err = app.server.Run(app.config.Server.Address); err != nil {
		log.Println(err.Error())
	}

}
