package main

import "github.com/adanyl0v/go-todo-lists/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadConfig()
	app.MustInitApplicationLogger()

	app.MustConnectPostgres()
	defer app.DisconnectPostgres()

	app.MustListenAndServeHTTP()
}
