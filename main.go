package main

import "marketChat/cmd/app"

func main() {
	app.GetApp().LetsGo()
}
